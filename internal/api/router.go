package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/kudosboard/internal/api/handlers"
	"github.com/hugh/kudosboard/internal/api/middleware"
	"github.com/hugh/kudosboard/internal/auth"
	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/internal/kudos"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	KudosService   *kudos.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	profileHandler := handlers.NewProfileHandler(cfg.AuthService)
	orgHandler := handlers.NewOrganizationHandler(cfg.DB, cfg.AuthService)
	kudosHandler := handlers.NewKudosHandler(cfg.KudosService)
	dashboardHandler := handlers.NewDashboardHandler(cfg.KudosService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/accounts/signup", authHandler.Signup)
		r.Post("/accounts/login", authHandler.Login)
		r.Post("/accounts/token/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/logout", authHandler.Logout)

				r.Route("/profile", func(r chi.Router) {
					r.Get("/", profileHandler.Get)
					r.Patch("/", profileHandler.Patch)
					r.Post("/change-password", profileHandler.ChangePassword)
				})

				r.Route("/organizations", func(r chi.Router) {
					r.Get("/", orgHandler.List)
					r.With(middleware.RequireRole(models.RoleOwner)).Post("/users", orgHandler.AddUser)
				})

				r.Get("/dashboard/stats", dashboardHandler.Stats)
			})

			r.Route("/kudos", func(r chi.Router) {
				// Per-user limit on the spend path, on top of the global one.
				if cfg.RateLimitReqs > 0 {
					r.With(middleware.RateLimitByUser(cfg.RateLimitReqs, cfg.RateLimitSecs)).Post("/give", kudosHandler.Give)
				} else {
					r.Post("/give", kudosHandler.Give)
				}
				r.Get("/history", kudosHandler.History)
				r.Get("/received", kudosHandler.Received)
				r.Get("/leaderboard", kudosHandler.Leaderboard)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleOwner))
					r.Delete("/{id}", kudosHandler.Deactivate)
					r.Post("/{id}/restore", kudosHandler.Restore)
				})
			})
		})
	})

	return &Router{r}
}
