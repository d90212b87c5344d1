package restaurants

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes
// for the restaurant resource, at the root level
func Routes(catalogProvider catalog.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(catalogProvider))
	router.Get("/{id}", GetSingle(catalogProvider))
	return router
}

// GetAll gets all restaurants from the catalog
func GetAll(catalogProvider catalog.Provider) http.HandlerFunc {
	// Use a closure to inject the catalog provider
	return func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := catalogProvider.GetAllRestaurants()
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the list in a JSON object
		jsonResponse, err := json.Marshal(map[string]interface{}{
			"restaurants": restaurants,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}

// RestaurantResponse is a single restaurant with its menu partitioned
// into category buckets for the category/menu screens
type RestaurantResponse struct {
	ID   int               `json:"id"`
	Name string            `json:"name"`
	Menu types.GroupedMenu `json:"menu"`
}

// GetSingle gets a single restaurant from the catalog by its ID,
// with its menu grouped by category
func GetSingle(catalogProvider catalog.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := chi.URLParam(r, "id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			util.ErrorWithCode(w, errors.New("the URL parameter must be a restaurant identifier"),
				http.StatusBadRequest)
			return
		}

		restaurant, err := catalogProvider.GetRestaurant(id)
		if err != nil {
			util.Error(w, err)
			return
		}

		responseData := RestaurantResponse{
			ID:   restaurant.ID,
			Name: restaurant.Name,
			Menu: catalog.Group(restaurant.MenuItems),
		}

		// Return the single restaurant as the top-level JSON
		jsonResponse, err := json.Marshal(responseData)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}
