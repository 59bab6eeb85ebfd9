package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/contasapp/contas/internal/adapter/http/handler"
	"github.com/contasapp/contas/internal/adapter/http/middleware"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler     *handler.CustomerHandler
	SaleHandler         *handler.SaleHandler
	QuoteHandler        *handler.QuoteHandler
	EntryHandler        *handler.EntryHandler
	SubscriptionHandler *handler.SubscriptionHandler
	ReportHandler       *handler.ReportHandler
	BackupHandler       *handler.BackupHandler
	AuditHandler        *handler.AuditHandler
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	HealthHandler       *handler.HealthHandler

	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Handle)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	r.Get("/health", cfg.HealthHandler.Health)
	r.Get("/ready", cfg.HealthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idem := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idem.Wrap)
		}

		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware.Authenticate)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", cfg.CustomerHandler.List)
				r.Get("/{id}", cfg.CustomerHandler.Get)
				writeGroup(r, cfg, domain.RoleOperator, func(r chi.Router) {
					r.Post("/", cfg.CustomerHandler.Create)
					r.Put("/{id}", cfg.CustomerHandler.Update)
					r.Delete("/{id}", cfg.CustomerHandler.Delete)
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", cfg.SaleHandler.List)
				r.Get("/{id}", cfg.SaleHandler.Get)
				writeGroup(r, cfg, domain.RoleOperator, func(r chi.Router) {
					r.Post("/", cfg.SaleHandler.Create)
					r.Put("/{id}", cfg.SaleHandler.Update)
					r.Delete("/{id}", cfg.SaleHandler.Delete)
				})
			})

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", cfg.QuoteHandler.List)
				r.Get("/{id}", cfg.QuoteHandler.Get)
				writeGroup(r, cfg, domain.RoleOperator, func(r chi.Router) {
					r.Post("/", cfg.QuoteHandler.Create)
					r.Put("/{id}", cfg.QuoteHandler.Update)
					r.Post("/{id}/reject", cfg.QuoteHandler.Reject)
					r.Post("/{id}/convert", cfg.QuoteHandler.Convert)
				})
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", cfg.EntryHandler.List)
				r.Get("/{id}", cfg.EntryHandler.Get)
				writeGroup(r, cfg, domain.RoleOperator, func(r chi.Router) {
					r.Post("/", cfg.EntryHandler.Create)
					r.Delete("/{id}", cfg.EntryHandler.Delete)
					r.Post("/{id}/pay", cfg.EntryHandler.Pay)
					r.Post("/{id}/pay-partial", cfg.EntryHandler.PayPartial)
					r.Post("/{id}/reverse", cfg.EntryHandler.Reverse)
				})
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", cfg.SubscriptionHandler.List)
				r.Get("/{id}", cfg.SubscriptionHandler.Get)
				r.Get("/{id}/periods", cfg.SubscriptionHandler.ListPeriods)
				writeGroup(r, cfg, domain.RoleOperator, func(r chi.Router) {
					r.Post("/", cfg.SubscriptionHandler.Create)
					r.Put("/{id}", cfg.SubscriptionHandler.Update)
					r.Post("/{id}/deactivate", cfg.SubscriptionHandler.Deactivate)
					r.Post("/{id}/periods/{year}/{month}/pay", cfg.SubscriptionHandler.PayPeriod)
					r.Post("/{id}/periods/{year}/{month}/skip", cfg.SubscriptionHandler.SkipPeriod)
					r.Post("/{id}/periods/{year}/{month}/revert", cfg.SubscriptionHandler.RevertPeriod)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/open-accounts", cfg.ReportHandler.OpenAccounts)
				r.Get("/received/{year}", cfg.ReportHandler.ReceivedByMonth)
				r.Get("/forecast", cfg.ReportHandler.Forecast)
			})

			writeGroup(r, cfg, domain.RoleAdmin, func(r chi.Router) {
				r.Get("/backup", cfg.BackupHandler.Export)
				r.Post("/backup", cfg.BackupHandler.Import)
				r.Get("/audit", cfg.AuditHandler.List)

				r.Route("/users", func(r chi.Router) {
					r.Post("/", cfg.UserHandler.Create)
					r.Get("/", cfg.UserHandler.List)
					r.Get("/{id}", cfg.UserHandler.Get)
					r.Put("/{id}", cfg.UserHandler.Update)
				})
			})
		})
	})

	return r
}

// writeGroup nests routes behind a role check when auth is enabled.
func writeGroup(r chi.Router, cfg RouterConfig, role domain.Role, routes func(chi.Router)) {
	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware.RequireRole(role))
		}
		routes(r)
	})
}
