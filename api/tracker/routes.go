package tracker

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/upstream"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes for the daily
// tracker resource, at the root level
func Routes(sessions *session.Manager, api upstream.API) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetToday(sessions, api))
	router.Get("/history", GetHistory(sessions, api))
	return router
}

// GetToday gets the current day's consumption totals from the upstream API
func GetToday(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		tracker, err := api.GetTracker(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the tracker as the top-level JSON
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

// GetHistory gets the user's logged-day aggregates from the upstream API
func GetHistory(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		history, err := api.GetHistory(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the list in a JSON object
		jsonResponse, err := json.Marshal(map[string]interface{}{
			"history": history,
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
