package meal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/catalog"
	"github.com/fastfood-planner/planner-api/meal"
	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/upstream"
	"github.com/fastfood-planner/planner-api/util"

	"github.com/fastfood-planner/planner-api/types"
)

// defaultSuggestTarget is the calorie target used when the suggest
// route is called without one
const defaultSuggestTarget = 700

// Routes creates a new Chi router with all of the routes for the
// in-progress meal resource, at the root level
func Routes(catalogProvider catalog.Provider, sessions *session.Manager,
	api upstream.API) *chi.Mux {

	router := chi.NewRouter()
	router.Get("/", Current(sessions))
	router.Post("/items", AddItem(catalogProvider, sessions))
	router.Delete("/items/{id}", RemoveItem(sessions))
	router.Delete("/", Clear(sessions))
	router.Get("/review", Review(sessions, api))
	router.Post("/log", Log(sessions, api))
	router.Post("/favorite", SaveFavorite(sessions, api))
	router.Get("/suggest", Suggest(sessions, api))
	return router
}

// MealResponse is the in-progress meal with its derived totals,
// recomputed on every read
type MealResponse struct {
	Items  []types.MealItem `json:"items"`
	Count  int              `json:"count"`
	Totals types.MealTotals `json:"totals"`
}

// Current gets the session's in-progress meal and its totals
func Current(sessions *session.Manager) http.HandlerFunc {
	// Use a closure to inject the session manager
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		writeMeal(w, serverSession, http.StatusOK)
	}
}

// AddItem adds one unit of a catalog item to the in-progress meal.
// Adding an item that is already present increments its quantity
// without moving it
func AddItem(catalogProvider catalog.Provider, sessions *session.Manager) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		var body struct {
			ID int `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		item, err := catalogProvider.GetItem(body.ID)
		if err != nil {
			util.Error(w, err)
			return
		}

		serverSession.AddToMeal(*item)
		writeMeal(w, serverSession, http.StatusOK)
	}
}

// RemoveItem takes one unit of an item out of the in-progress meal.
// Removing an item that is not in the meal is a safe no-op
func RemoveItem(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		idParam := chi.URLParam(r, "id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			util.ErrorWithCode(w, errors.New("the URL parameter must be an item identifier"),
				http.StatusBadRequest)
			return
		}

		serverSession.RemoveFromMeal(id)
		writeMeal(w, serverSession, http.StatusOK)
	}
}

// Clear discards the in-progress meal unconditionally
func Clear(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		serverSession.ClearMeal()
		w.WriteHeader(http.StatusNoContent)
	}
}

// ReviewResponse is the meal review screen's data:
// the meal, its totals, and the calorie impact of logging it now
type ReviewResponse struct {
	Items            []types.MealItem `json:"items"`
	Count            int              `json:"count"`
	Totals           types.MealTotals `json:"totals"`
	CaloriesConsumed float64          `json:"calories_consumed"`
	CalorieGoal      int              `json:"calorie_goal"`
	PredictedTotal   float64          `json:"predicted_total"`
	Remaining        float64          `json:"remaining"`
}

// Review joins the in-progress meal with the user's upstream tracker and
// calorie goal. Both upstream fetches must succeed before any of the
// combined state is returned; a failure of either fails the whole request
func Review(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		items, count := serverSession.MealItems()
		totals := meal.Totals(items)

		tracker, err := api.GetTracker(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		profile, err := api.GetProfile(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		predicted, remaining := meal.Impact(totals, tracker.CaloriesConsumed, profile.CalorieGoal)
		responseData := ReviewResponse{
			Items:            items,
			Count:            count,
			Totals:           totals,
			CaloriesConsumed: tracker.CaloriesConsumed,
			CalorieGoal:      profile.CalorieGoal,
			PredictedTotal:   predicted,
			Remaining:        remaining,
		}

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

// Log flattens the in-progress meal into the upstream wire shape
// (one identifier per unit of quantity), submits it, and on success clears
// the meal while retaining the flattened copy for save-as-favorite.
// Returns the updated tracker
func Log(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		itemIDs := serverSession.MealItemIDs()
		if len(itemIDs) == 0 {
			util.ErrorWithCode(w, errors.New("the meal is empty"),
				http.StatusBadRequest)
			return
		}

		tracker, err := api.LogMeal(r.Context(), serverSession.UpstreamToken, itemIDs)
		if err != nil {
			util.Error(w, err)
			return
		}

		serverSession.CompleteLog(itemIDs)

		// Return the updated tracker as the top-level JSON
		jsonResponse, err := json.Marshal(tracker)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}

// SaveFavorite saves the session's last logged meal as a named favorite
func SaveFavorite(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			util.ErrorWithCode(w, errors.New("favorite name cannot be empty"),
				http.StatusBadRequest)
			return
		}

		itemIDs, ok := serverSession.LastLogged()
		if !ok {
			util.ErrorWithCode(w, errors.New("no meal has been logged in this session"),
				http.StatusBadRequest)
			return
		}

		favorite, err := api.CreateFavorite(r.Context(), serverSession.UpstreamToken, body.Name, itemIDs)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the created favorite as the top-level JSON
		jsonResponse, err := json.Marshal(favorite)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(jsonResponse)
	}
}

// Suggest passes through the upstream random-meal generator
// for the given calorie target
func Suggest(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		target := defaultSuggestTarget
		if targetParam := r.URL.Query().Get("target"); targetParam != "" {
			target, err = strconv.Atoi(targetParam)
			if err != nil || target <= 0 {
				util.ErrorWithCode(w, errors.New("target param must be a positive calorie amount"),
					http.StatusBadRequest)
				return
			}
		}

		randomMeal, err := api.GetRandomMeal(r.Context(), serverSession.UpstreamToken, target)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the suggestion as the top-level JSON
		jsonResponse, err := json.Marshal(randomMeal)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}

// writeMeal responds with the session's current meal state
// and freshly computed totals
func writeMeal(w http.ResponseWriter, serverSession *session.Session, statusCode int) {
	items, count := serverSession.MealItems()
	responseData := MealResponse{
		Items:  items,
		Count:  count,
		Totals: meal.Totals(items),
	}

	jsonResponse, err := json.Marshal(responseData)
	if err != nil {
		util.ErrorWithCode(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
