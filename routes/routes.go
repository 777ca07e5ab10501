package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/secure-access-gateway/app"
	"github.com/upb/secure-access-gateway/middleware"
	"github.com/upb/secure-access-gateway/models"
	"github.com/upb/secure-access-gateway/utils"
)

// SetupRoutes configures all application routes and middleware.
//
// /auth/*, /healthz, /readyz and /metrics are public. Everything under
// /api/v1 requires an authenticated request.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(chimiddleware.Recoverer)
	if timeout := deps.Config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Establish authentication for every request; never rejects
	r.Use(deps.Authenticator.Authenticate)

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Public auth endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)
		r.Get("/check", deps.AuthHandler.HandleCheck)

		// /auth/** stays public even for unknown paths
		r.NotFound(notFound)
	})

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AccessControl.RequireAuthenticated)

		r.Get("/me", deps.UserHandler.HandleMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AccessControl.RequireRole(models.RoleAdmin))
			r.Get("/ping", deps.UserHandler.HandleAdminPing)
		})
	})

	// Unlisted paths require authentication like any other route
	r.NotFound(deps.AccessControl.RequireAuthenticated(http.HandlerFunc(notFound)).ServeHTTP)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "endpoint not found")
}
