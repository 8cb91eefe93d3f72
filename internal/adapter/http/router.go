package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vfarias/financeiro/internal/adapter/http/handler"
	"github.com/vfarias/financeiro/internal/adapter/http/middleware"
	"github.com/vfarias/financeiro/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler      *handler.EntryHandler
	SettlementHandler *handler.SettlementHandler
	SummaryHandler    *handler.SummaryHandler
	ChatHandler       *handler.ChatHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Patch("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
			r.Post("/{id}/clone", cfg.EntryHandler.Clone)
			r.Post("/{id}/settle", cfg.SettlementHandler.Settle)
			r.Post("/{id}/settle/full", cfg.SettlementHandler.SettleFull)
			r.Get("/{id}/settlements", cfg.EntryHandler.ListSettlements)
			r.Post("/{id}/settlements/reverse", cfg.SettlementHandler.ReverseLast)
		})

		// Consolidated summary
		r.Get("/summary", cfg.SummaryHandler.Get)

		// Ledger-wide consistency
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Post("/reconcile/{id}", cfg.LedgerHandler.Reconcile)
		})

		// Chat gateway commands
		r.Post("/chat/commands", cfg.ChatHandler.Dispatch)
	})

	return r
}
