package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/upstream"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes for the favorite
// meal resource, at the root level
func Routes(sessions *session.Manager, api upstream.API) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(sessions, api))
	router.Post("/", Create(sessions, api))
	router.Delete("/{id}", Delete(sessions, api))
	router.Post("/{id}/log", LogFavorite(sessions, api))
	return router
}

// GetAll gets the user's saved favorites from the upstream API
func GetAll(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		favorites, err := api.GetFavorites(r.Context(), serverSession.UpstreamToken)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Return the list in a JSON object
		jsonResponse, err := json.Marshal(map[string]interface{}{
			"favorites": favorites,
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

// Create saves a new named favorite through the upstream API.
// The item list is flattened: repetition encodes quantity
func Create(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		var body struct {
			Name    string `json:"name"`
			ItemIDs []int  `json:"item_ids"`
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
		if len(body.ItemIDs) == 0 {
			util.ErrorWithCode(w, errors.New("favorite must contain at least one item"),
				http.StatusBadRequest)
			return
		}

		favorite, err := api.CreateFavorite(r.Context(), serverSession.UpstreamToken, body.Name, body.ItemIDs)
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

// Delete removes a favorite through the upstream API
func Delete(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		id, err := favoriteID(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		if err := api.DeleteFavorite(r.Context(), serverSession.UpstreamToken, id); err != nil {
			util.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// LogFavorite logs a favorite as a new meal through the upstream API
// and returns the updated tracker
func LogFavorite(sessions *session.Manager, api upstream.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverSession, err := sessions.FromRequest(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		id, err := favoriteID(r)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		tracker, err := api.LogFavorite(r.Context(), serverSession.UpstreamToken, id)
		if err != nil {
			util.Error(w, err)
			return
		}

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

// favoriteID parses the id URL parameter
func favoriteID(r *http.Request) (int, error) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		return 0, errors.New("the URL parameter must be a favorite identifier")
	}

	return id, nil
}
