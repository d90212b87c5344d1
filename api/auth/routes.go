package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/fastfood-planner/planner-api/auth"
	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/types"
	"github.com/fastfood-planner/planner-api/upstream"
	"github.com/fastfood-planner/planner-api/util"
)

// Routes creates a new Chi router with all of the routes for the auth flow
func Routes(api upstream.API, sessions *session.Manager, jwtManager *auth.JWTManager) *chi.Mux {
	// Try to see how long issued tokens should live
	var tokenExpirationHours *int64 = nil
	if value, ok := os.LookupEnv("AUTH_JWT_TOKEN_EXPIRES_AFTER"); ok {
		valueInt, err := strconv.Atoi(value)
		if err == nil {
			valueInt64 := int64(valueInt)
			tokenExpirationHours = &valueInt64
		}
	}

	router := chi.NewRouter()

	// Public routes
	router.Group(func(r chi.Router) {
		r.Post("/login", Login(api, sessions, jwtManager, tokenExpirationHours))
		r.Post("/register", Register(api, sessions, jwtManager, tokenExpirationHours))
	})

	// Protect the /session and /logout routes and validate JWTs
	router.Group(func(r chi.Router) {
		// Seek, verify and validate JWT tokens,
		// sending appropriate status codes upon failure.
		r.Use(jwtManager.Authenticated())

		r.Get("/session", Session())
		r.Post("/logout", Logout(sessions))
	})

	return router
}

// credentials is the request body shared by login and registration
type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse bundles together the signed JWT and the session it encodes
type AuthResponse struct {
	Token   string        `json:"token"`
	Session types.Session `json:"session"`
}

// Login exchanges upstream credentials for a server-side session
// and a signed JWT pointing at it
func Login(api upstream.API, sessions *session.Manager, jwtManager *auth.JWTManager,
	tokenExpirationHours *int64) http.HandlerFunc {

	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		body.Username = strings.TrimSpace(body.Username)
		if body.Username == "" || body.Password == "" {
			util.ErrorWithCode(w, errors.New("username and password are required"),
				http.StatusBadRequest)
			return
		}

		upstreamToken, err := api.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			util.Error(w, err)
			return
		}

		issueSession(w, sessions, jwtManager, body.Username, upstreamToken,
			tokenExpirationHours, http.StatusOK)
	}
}

// Register creates a new upstream account and signs the new user in.
// Upstream field validation failures surface as a single
// concatenated message
func Register(api upstream.API, sessions *session.Manager, jwtManager *auth.JWTManager,
	tokenExpirationHours *int64) http.HandlerFunc {

	// Use a closure to inject dependencies
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(body.Email)
		if body.Username == "" || body.Email == "" || body.Password == "" {
			util.ErrorWithCode(w, errors.New("username, email, and password are required"),
				http.StatusBadRequest)
			return
		}

		upstreamToken, err := api.Register(r.Context(), body.Username, body.Email, body.Password)
		if err != nil {
			util.Error(w, err)
			return
		}

		issueSession(w, sessions, jwtManager, body.Username, upstreamToken,
			tokenExpirationHours, http.StatusCreated)
	}
}

// SessionResponse bundles together the session read back from a JWT
type SessionResponse struct {
	Session types.Session `json:"session"`
}

// Session returns the inner data of the user's session by reading their JWT
// and validating it
func Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract the claims from the token
		_, claims, err := auth.FromContext(r.Context())
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		// Create the response object and send it to the user
		responseData := SessionResponse{
			Session: *claims.Session(),
		}
		jsonResponse, err := json.Marshal(responseData)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(jsonResponse)
	}
}

// Logout drops the server-side session,
// discarding any in-progress meal with it
func Logout(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.FromContext(r.Context())
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusUnauthorized)
			return
		}

		sessions.Delete(claims.SessionID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// issueSession provisions the server-side session, signs a JWT for it,
// and writes the combined response
func issueSession(w http.ResponseWriter, sessions *session.Manager,
	jwtManager *auth.JWTManager, username string, upstreamToken string,
	tokenExpirationHours *int64, statusCode int) {

	serverSession, err := sessions.Create(username, upstreamToken)
	if err != nil {
		util.Error(w, err)
		return
	}

	sessionData := types.Session{
		Username:     username,
		SessionID:    serverSession.ID,
		IssuedAt:     time.Now(),
		ExpiresAfter: tokenExpirationHours,
	}

	token := jwtManager.IssueJWT(sessionData)
	signed, err := jwtManager.SignToken(token)
	if err != nil {
		util.Error(w, err)
		return
	}

	responseData := AuthResponse{
		Token:   signed,
		Session: sessionData,
	}
	jsonResponse, err := json.Marshal(responseData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}
