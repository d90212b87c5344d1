package catalog

import (
	"sync"

	"github.com/fastfood-planner/planner-api/types"
)

// Cache holds an in-memory snapshot of the upstream catalog
// (restaurants with their menus) and implements the Provider interface.
// It is replaced atomically on each refresh
type Cache struct {
	sync.Mutex
	loaded      bool
	restaurants []types.Restaurant
	menus       map[int][]types.MenuItem
	items       map[int]types.MenuItem
}

// Load replaces the cache contents with the given restaurants,
// marking it as ready.
// Menus are indexed by restaurant identifier and every menu item
// is additionally indexed by its own identifier.
//
// Note: takes ownership of the passed in slice;
// it cannot be reused by the caller afterwards
func (c *Cache) Load(restaurants []types.Restaurant) {
	menus := make(map[int][]types.MenuItem)
	items := make(map[int]types.MenuItem)
	for _, restaurant := range restaurants {
		menus[restaurant.ID] = restaurant.MenuItems
		for _, item := range restaurant.MenuItems {
			items[item.ID] = item
		}
	}

	c.Lock()
	defer c.Unlock()

	c.loaded = true
	c.restaurants = restaurants
	c.menus = menus
	c.items = items
}

// GetAllRestaurants gets all restaurants in catalog order,
// with identifiers and names only
func (c *Cache) GetAllRestaurants() ([]types.Restaurant, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("list restaurants")
	}

	restaurants := make([]types.Restaurant, 0, len(c.restaurants))
	for _, restaurant := range c.restaurants {
		restaurants = append(restaurants, types.Restaurant{
			ID:   restaurant.ID,
			Name: restaurant.Name,
		})
	}

	return restaurants, nil
}

// GetRestaurant gets a single restaurant with its full menu
func (c *Cache) GetRestaurant(id int) (*types.Restaurant, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("get restaurant")
	}

	for _, restaurant := range c.restaurants {
		if restaurant.ID == id {
			result := restaurant
			return &result, nil
		}
	}

	return nil, NewRestaurantNotFoundError(id)
}

// GetMenu gets the menu items for the given restaurant identifier,
// in catalog order
func (c *Cache) GetMenu(restaurantID int) ([]types.MenuItem, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("get restaurant menu")
	}

	if menu, ok := c.menus[restaurantID]; ok {
		return menu, nil
	}

	return nil, NewRestaurantNotFoundError(restaurantID)
}

// GetAllItems gets every menu item in the catalog,
// in restaurant order and then menu order
func (c *Cache) GetAllItems() ([]types.MenuItem, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("list menu items")
	}

	items := []types.MenuItem{}
	for _, restaurant := range c.restaurants {
		items = append(items, restaurant.MenuItems...)
	}

	return items, nil
}

// GetItem gets a single menu item by its identifier
func (c *Cache) GetItem(id int) (*types.MenuItem, error) {
	c.Lock()
	defer c.Unlock()

	if !c.loaded {
		return nil, NewCacheNotInitializedError("get menu item")
	}

	if item, ok := c.items[id]; ok {
		result := item
		return &result, nil
	}

	return nil, NewItemNotFoundError(id)
}
