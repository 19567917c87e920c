package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/contaledger/contaledger/internal/adapter/http/handler"
	"github.com/contaledger/contaledger/internal/adapter/http/middleware"
	"github.com/contaledger/contaledger/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PeriodHandler  *handler.PeriodHandler
	ClosingHandler *handler.ClosingHandler
	AccountHandler *handler.AccountHandler
	LedgerHandler  *handler.LedgerHandler
	AuditHandler   *handler.AuditHandler
	HealthHandler  *handler.HealthHandler
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Identity)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Periods
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", cfg.PeriodHandler.List)
			r.Post("/", cfg.PeriodHandler.Create)
			r.Get("/{id}", cfg.PeriodHandler.Get)
			r.Put("/{id}", cfg.PeriodHandler.Edit)
			r.Delete("/{id}", cfg.PeriodHandler.Delete)
			r.Post("/{id}/close", cfg.PeriodHandler.Close)
			r.Post("/{id}/reopen", cfg.PeriodHandler.Reopen)
			r.Get("/{id}/balances", cfg.LedgerHandler.Balances)
			r.Get("/{id}/consistency", cfg.LedgerHandler.Consistency)
		})

		// Month-end closing
		r.Route("/closings", func(r chi.Router) {
			r.Get("/periods", cfg.ClosingHandler.OpenPeriods)
			r.Post("/", cfg.ClosingHandler.Execute)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
		})

		r.Get("/audit", cfg.AuditHandler.List)
	})

	return r
}
