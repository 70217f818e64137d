package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finboard/variance/internal/adapter/http/handler"
	"github.com/finboard/variance/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AnalysisHandler *handler.AnalysisHandler
	CacheHandler    *handler.CacheHandler
	TrendHandler    *handler.TrendHandler
	HealthHandler   *handler.HealthHandler
	Logger          zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Analyses
		r.Post("/analyses", cfg.AnalysisHandler.Create)

		// Cache management
		r.Route("/cache", func(r chi.Router) {
			r.Delete("/{orgID}", cfg.CacheHandler.InvalidateOrganization)
			r.Delete("/{orgID}/{boardID}/{period}", cfg.CacheHandler.InvalidateEntry)
			r.Get("/{orgID}/{boardID}/{period}", cfg.CacheHandler.Exists)
		})

		// Account trends
		r.Get("/accounts/{accountID}/trend", cfg.TrendHandler.Get)
	})

	return r
}
