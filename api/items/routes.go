package items

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes for the menu item
// resource, at the root level
func Routes(catalogProvider catalog.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(catalogProvider))
	return router
}

// GetAll gets menu items from the catalog, narrowed by the optional
// restaurant, category, search, and ordering querystring params
func GetAll(catalogProvider catalog.Provider) http.HandlerFunc {
	// Use a closure to inject the catalog provider
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantParam := r.URL.Query().Get("restaurant")
		category := r.URL.Query().Get("category")
		search := strings.ToLower(r.URL.Query().Get("search"))
		ordering := r.URL.Query().Get("ordering")

		var items []types.MenuItem
		var err error
		if restaurantParam != "" {
			restaurantID, convErr := strconv.Atoi(restaurantParam)
			if convErr != nil {
				util.ErrorWithCode(w, fmt.Errorf("restaurant param '%s' is not an identifier", restaurantParam),
					http.StatusBadRequest)
				return
			}

			items, err = catalogProvider.GetMenu(restaurantID)
		} else {
			items, err = catalogProvider.GetAllItems()
		}
		if err != nil {
			util.Error(w, err)
			return
		}

		filtered := []types.MenuItem{}
		for _, item := range items {
			if category != "" && !categoryMatches(item, category) {
				continue
			}

			// Make sure the name passes a search if it was given
			if search != "" && !fuzzy.MatchNormalized(search, strings.ToLower(item.Name)) {
				continue
			}

			filtered = append(filtered, item)
		}

		if ordering != "" {
			if err := sortItems(filtered, ordering); err != nil {
				util.ErrorWithCode(w, err, http.StatusBadRequest)
				return
			}
		}

		// Return the list in a JSON object
		jsonResponse, err := json.Marshal(map[string]interface{}{
			"items": filtered,
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

// categoryMatches compares against the item's effective category,
// so uncategorized items are reachable through the default bucket
func categoryMatches(item types.MenuItem, category string) bool {
	effective := item.Category
	if effective == "" {
		effective = catalog.DefaultCategory
	}

	return strings.EqualFold(effective, category)
}

// sortItems sorts in place by an ordering key,
// where a '-' prefix flips to descending
// (mirroring the upstream API's ordering param)
func sortItems(items []types.MenuItem, ordering string) error {
	key := ordering
	descending := false
	if strings.HasPrefix(key, "-") {
		key = strings.TrimPrefix(key, "-")
		descending = true
	}

	var less func(a types.MenuItem, b types.MenuItem) bool
	switch key {
	case "name":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Name < b.Name }
	case "calories":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Calories < b.Calories }
	case "protein":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Protein < b.Protein }
	case "fat":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Fat < b.Fat }
	case "carbohydrates":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Carbohydrates < b.Carbohydrates }
	case "sodium":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Sodium < b.Sodium }
	case "sugar":
		less = func(a types.MenuItem, b types.MenuItem) bool { return a.Sugar < b.Sugar }
	default:
		return fmt.Errorf("unknown ordering key '%s'", ordering)
	}

	sort.SliceStable(items, func(i int, j int) bool {
		if descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})

	return nil
}
