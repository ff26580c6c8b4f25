package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/khatahub/khata/internal/adapter/http/handler"
	"github.com/khatahub/khata/internal/adapter/http/middleware"
	"github.com/khatahub/khata/internal/infrastructure/auth"
	"github.com/khatahub/khata/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	CustomerHandler    *handler.CustomerHandler
	TransactionHandler *handler.TransactionHandler
	EntryHandler       *handler.EntryHandler
	SummaryHandler     *handler.SummaryHandler
	WatchHandler       *handler.WatchHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Logger             zerolog.Logger
	RateLimitRPS       float64
	RateLimitBurst     int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(limiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints are the only unauthenticated ones
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Post("/", cfg.CustomerHandler.Create)
				r.Get("/", cfg.CustomerHandler.List)
				r.Get("/{id}", cfg.CustomerHandler.Get)
				r.Put("/{id}", cfg.CustomerHandler.Update)
				r.Delete("/{id}", cfg.CustomerHandler.Delete)
				r.Post("/{id}/transactions", cfg.TransactionHandler.Record)
				r.Get("/{id}/entries", cfg.EntryHandler.ListByCustomer)
			})

			// Book-wide views
			r.Get("/entries", cfg.EntryHandler.ListByOwner)
			r.Get("/summary", cfg.SummaryHandler.Get)
			r.Get("/watch", cfg.WatchHandler.Watch)
		})
	})

	return r
}
