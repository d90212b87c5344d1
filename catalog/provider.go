package catalog

import (
	"github.com/fastfood-planner/planner-api/types"
)

// Provider represents a read-only catalog implementation
// (restaurants and their menus)
type Provider interface {
	GetAllRestaurants() ([]types.Restaurant, error)
	GetRestaurant(id int) (*types.Restaurant, error)
	GetMenu(restaurantID int) ([]types.MenuItem, error)
	GetAllItems() ([]types.MenuItem, error)
	GetItem(id int) (*types.MenuItem, error)
}
