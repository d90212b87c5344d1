package catalog

import "fmt"

// CacheNotInitializedError is an error used to encode when the catalog cache
// has not completed its first load from the upstream API
type CacheNotInitializedError struct {
	Action string
}

// NewCacheNotInitializedError constructs a new CacheNotInitializedError
func NewCacheNotInitializedError(action string) *CacheNotInitializedError {
	return &CacheNotInitializedError{
		Action: action,
	}
}

func (e *CacheNotInitializedError) Error() string {
	return fmt.Sprintf("cannot %s: catalog cache has not been initialized", e.Action)
}

// RestaurantNotFoundError is an error used to encode when a restaurant
// isn't found in the catalog
type RestaurantNotFoundError struct {
	ID int
}

// NewRestaurantNotFoundError constructs a new RestaurantNotFoundError
func NewRestaurantNotFoundError(id int) *RestaurantNotFoundError {
	return &RestaurantNotFoundError{
		ID: id,
	}
}

func (e *RestaurantNotFoundError) Error() string {
	return fmt.Sprintf("restaurant with identifier '%d' not found in the catalog cache",
		e.ID)
}

// ItemNotFoundError is an error used to encode when a menu item
// isn't found in the catalog
type ItemNotFoundError struct {
	ID int
}

// NewItemNotFoundError constructs a new ItemNotFoundError
func NewItemNotFoundError(id int) *ItemNotFoundError {
	return &ItemNotFoundError{
		ID: id,
	}
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item with identifier '%d' not found in the catalog cache",
		e.ID)
}
