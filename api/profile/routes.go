package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/upstream"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes for the profile
// resource, at the root level
func Routes(sessions *session.Manager, api upstream.API) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", Get(sessions, api))
	router.Put("/", Update(sessions, api))
	return router
}

// Get gets the user's profile from the upstream API
func Get(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		profile, err := api.GetProfile(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the profile as the top-level JSON
		jsonResponse, err := json.Marshal(profile)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}

// Update replaces the user's profile through the upstream API
func Update(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		var profile types.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		if profile.CalorieGoal <= 0 {
			util.ErrorWithCode(w, errors.New("calorie goal must be positive"),
				http.StatusBadRequest)
			return
		}

		updated, err := api.UpdateProfile(r.Context(), serverSession.UpstreamToken, profile)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the updated profile as the top-level JSON
		jsonResponse, err := json.Marshal(updated)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}
