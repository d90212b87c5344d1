package catalog

import (
	"testing"

	"github.com/fastfood-planner/planner-api/types"
)

func testRestaurants() []types.Restaurant {
	return []types.Restaurant{
		{
			ID:   10,
			Name: "Burger Palace",
			MenuItems: []types.MenuItem{
				{ID: 1, Name: "Cheeseburger", Category: "Burgers", Calories: 500},
				{ID: 2, Name: "Fries", Category: "Sides", Calories: 400},
			},
		},
		{
			ID:   11,
			Name: "Taco Town",
			MenuItems: []types.MenuItem{
				{ID: 3, Name: "Crunchy Taco", Category: "Tacos", Calories: 170},
			},
		},
	}
}

func TestCacheNotInitialized(t *testing.T) {
	cache := &Cache{}

	if _, err := cache.GetAllRestaurants(); err == nil {
		t.Error("expected an error listing restaurants before the first load")
	} else if _, ok := err.(*CacheNotInitializedError); !ok {
		t.Errorf("expected a CacheNotInitializedError, got %T", err)
	}
	if _, err := cache.GetItem(1); err == nil {
		t.Error("expected an error getting an item before the first load")
	}
}

func TestCacheGetAllRestaurantsStripsMenus(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())

	restaurants, err := cache.GetAllRestaurants()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(restaurants) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(restaurants))
	}
	for _, restaurant := range restaurants {
		if restaurant.MenuItems != nil {
			t.Errorf("expected the list endpoint to omit menus, got %+v", restaurant.MenuItems)
		}
	}
	if restaurants[0].Name != "Burger Palace" || restaurants[1].Name != "Taco Town" {
		t.Errorf("expected restaurants in catalog order, got %+v", restaurants)
	}
}

func TestCacheGetRestaurant(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())

	restaurant, err := cache.GetRestaurant(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restaurant.Name != "Burger Palace" || len(restaurant.MenuItems) != 2 {
		t.Errorf("expected the full restaurant record, got %+v", restaurant)
	}

	if _, err := cache.GetRestaurant(999); err == nil {
		t.Error("expected an error for an unknown restaurant")
	} else if _, ok := err.(*RestaurantNotFoundError); !ok {
		t.Errorf("expected a RestaurantNotFoundError, got %T", err)
	}
}

func TestCacheGetMenu(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())

	menu, err := cache.GetMenu(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(menu) != 1 || menu[0].Name != "Crunchy Taco" {
		t.Errorf("expected Taco Town's menu, got %+v", menu)
	}

	if _, err := cache.GetMenu(999); err == nil {
		t.Error("expected an error for an unknown restaurant")
	}
}

func TestCacheGetAllItems(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())

	items, err := cache.GetAllItems()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []int{1, 2, 3} {
		if items[i].ID != want {
			t.Errorf("item %d: expected id %d, got %d", i, want, items[i].ID)
		}
	}
}

func TestCacheGetItem(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())

	item, err := cache.GetItem(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Name != "Crunchy Taco" {
		t.Errorf("expected Crunchy Taco, got %+v", item)
	}

	if _, err := cache.GetItem(999); err == nil {
		t.Error("expected an error for an unknown item")
	} else if _, ok := err.(*ItemNotFoundError); !ok {
		t.Errorf("expected an ItemNotFoundError, got %T", err)
	}
}

func TestCacheReloadReplacesSnapshot(t *testing.T) {
	cache := &Cache{}
	cache.Load(testRestaurants())
	cache.Load([]types.Restaurant{
		{
			ID:   20,
			Name: "Pizza Plaza",
			MenuItems: []types.MenuItem{
				{ID: 50, Name: "Pepperoni Slice", Category: "Pizza"},
			},
		},
	})

	if _, err := cache.GetRestaurant(10); err == nil {
		t.Error("expected the old restaurant to be gone after a reload")
	}
	if _, err := cache.GetItem(50); err != nil {
		t.Errorf("expected the new item to be present, got error: %v", err)
	}
}
