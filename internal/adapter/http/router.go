package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/openbooks/yearend/internal/adapter/http/handler"
	"github.com/openbooks/yearend/internal/adapter/http/middleware"
	"github.com/openbooks/yearend/internal/infrastructure/metrics"
	"github.com/openbooks/yearend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FiscalYearHandler *handler.FiscalYearHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	MetricsHandler    http.Handler
	Metrics           *metrics.Metrics
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1/companies/{companyID}", func(r chi.Router) {
		r.Use(middleware.Company)
		r.Use(middleware.Actor)

		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Fiscal years
		r.Route("/fiscal-years", func(r chi.Router) {
			r.Get("/", cfg.FiscalYearHandler.List)
			r.Post("/", cfg.FiscalYearHandler.Create)
			r.Get("/current", cfg.FiscalYearHandler.Current)
			r.Post("/open", cfg.FiscalYearHandler.Open)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.FiscalYearHandler.Get)
				r.Delete("/", cfg.FiscalYearHandler.Delete)
				r.Post("/current", cfg.FiscalYearHandler.SetCurrent)
				r.Post("/close", cfg.FiscalYearHandler.Close)
				r.Post("/reopen", cfg.FiscalYearHandler.Reopen)
				r.Post("/refresh", cfg.FiscalYearHandler.Refresh)
			})
		})

		r.Post("/inventory/carry-forward", cfg.FiscalYearHandler.CarryForwardInventory)

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		r.Get("/ledger/balances", cfg.LedgerHandler.Balances)
	})

	return r
}
