package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"

	apiAuth "github.com/fastfood-planner/planner-api/api/auth"
	apiFavorites "github.com/fastfood-planner/planner-api/api/favorites"
	apiItems "github.com/fastfood-planner/planner-api/api/items"
	apiMeal "github.com/fastfood-planner/planner-api/api/meal"
	apiProfile "github.com/fastfood-planner/planner-api/api/profile"
	apiRestaurants "github.com/fastfood-planner/planner-api/api/restaurants"
	apiTracker "github.com/fastfood-planner/planner-api/api/tracker"
	"github.com/fastfood-planner/planner-api/auth"
	"github.com/fastfood-planner/planner-api/env"
	"github.com/fastfood-planner/planner-api/session"
	"github.com/fastfood-planner/planner-api/upstream"
)

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	upstreamProvider *upstream.Provider
	sessionManager   *session.Manager
	jwtManager       *auth.JWTManager
	logger           zerolog.Logger
}

// NewAPIServer initializes the struct and all constituent components
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	// Initialize the upstream nutrition API connector
	upstreamProvider, err := upstream.NewProvider()
	if err != nil {
		return nil, err
	}

	// Initialize the session manager
	sweepPeriod, err := env.GetDurationEnvOrDefault("session sweep period",
		"SESSION_SWEEP_PERIOD", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	maxIdle, err := env.GetDurationEnvOrDefault("session max idle time",
		"SESSION_MAX_IDLE", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	sessionManager := session.NewManager(sweepPeriod, maxIdle)

	// Initialize the JWT manager
	jwtManager, err := auth.NewJWTManager()
	if err != nil {
		return nil, err
	}

	return &APIServer{
		upstreamProvider: upstreamProvider,
		sessionManager:   sessionManager,
		jwtManager:       jwtManager,
		logger:           logger,
	}, nil
}

// Connect initializes the struct and all constituent components
func (a *APIServer) Connect(ctx context.Context) error {
	log.Println("initializing upstream nutrition API connector")
	err := a.upstreamProvider.Connect(ctx)
	if err != nil {
		log.Println("could not authenticate with the upstream nutrition API")
		return err
	}
	log.Println("successfully authenticated with the upstream nutrition API")

	return nil
}

// Disconnect releases the resources held by constituent components
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.upstreamProvider.Disconnect(ctx)
	if err != nil {
		log.Println("could not disconnect from the upstream nutrition API")
		return err
	}
	log.Println("disconnected from the upstream nutrition API")

	a.sessionManager.Stop()
	log.Println("stopped the session manager")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	router := a.routes()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Printf("API server started; serving on port %d\n", port)

	<-ctx.Done()
	log.Println("API server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("API server shutdown failed: %+v", err)
	}
	log.Println("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		middleware.Compress(5),                        // Compress results, mostly gzipping assets and json
		middleware.NoCache,                            // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	// ==============================
	// Add all routes to the API here
	// ==============================
	router.Route("/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			// Can be used for health checks
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(204)
			})

			r.Mount("/auth", apiAuth.Routes(a.upstreamProvider, a.sessionManager, a.jwtManager))
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			// Seek, verify and validate JWT tokens,
			// sending appropriate status codes upon failure
			r.Use(a.jwtManager.Authenticated())

			r.Mount("/restaurants", apiRestaurants.Routes(a.upstreamProvider))
			r.Mount("/items", apiItems.Routes(a.upstreamProvider))
			r.Mount("/meal", apiMeal.Routes(a.upstreamProvider, a.sessionManager, a.upstreamProvider))
			r.Mount("/tracker", apiTracker.Routes(a.sessionManager, a.upstreamProvider))
			r.Mount("/profile", apiProfile.Routes(a.sessionManager, a.upstreamProvider))
			r.Mount("/favorites", apiFavorites.Routes(a.sessionManager, a.upstreamProvider))
		})
	})

	return router
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	// See if the CORS_ALLOWED_ORIGINS environment variable was set
	allowedOrigins := "*"
	if value, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		allowedOrigins = value
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
