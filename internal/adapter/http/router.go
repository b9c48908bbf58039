package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/mmconsole/internal/adapter/http/handler"
	"github.com/iho/mmconsole/internal/adapter/http/middleware"
	"github.com/iho/mmconsole/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	RateHandler      *handler.RateHandler
	DraftHandler     *handler.DraftHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Lookups hit core banking on every call
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}

			r.Get("/accounts", cfg.AccountHandler.List)
			r.Get("/accounts/{accountNo}", cfg.AccountHandler.Get)
			r.Get("/rates/{base}/{quote}", cfg.RateHandler.Latest)
		})

		r.Route("/drafts", func(r chi.Router) {
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Post("/", cfg.DraftHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.DraftHandler.Get)
				r.Delete("/", cfg.DraftHandler.Discard)
				r.Put("/header", cfg.DraftHandler.UpdateHeader)
				r.Post("/validate", cfg.DraftHandler.Validate)
				r.Post("/submit", cfg.DraftHandler.Submit)

				r.Post("/lines", cfg.DraftHandler.AddLine)
				r.Route("/lines/{idx}", func(r chi.Router) {
					r.Delete("/", cfg.DraftHandler.RemoveLine)
					r.Put("/account", cfg.DraftHandler.SelectAccount)
					r.Put("/direction", cfg.DraftHandler.SetDirection)
					r.Put("/amount", cfg.DraftHandler.SetAmount)
					r.Put("/memo", cfg.DraftHandler.SetMemo)
					r.Put("/currency", cfg.DraftHandler.SetCurrency)
					r.Put("/rate-type", cfg.DraftHandler.SetRateType)
					r.Post("/rate/refresh", cfg.DraftHandler.RefreshRate)
				})
			})
		})
	})

	return r
}
