// Package console собирает HTTP API админ-консоли.
package console

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-admin/internal/analytics"
	"github.com/magabrotheeeer/subscription-admin/internal/audit"
	"github.com/magabrotheeeer/subscription-admin/internal/config"
	analyticshandler "github.com/magabrotheeeer/subscription-admin/internal/http/handlers/analytics"
	audithandler "github.com/magabrotheeeer/subscription-admin/internal/http/handlers/audit"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/session/login"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/session/logout"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/session/status"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/block"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/dialog"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/page"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/refresh"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/remove"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/search"
	"github.com/magabrotheeeer/subscription-admin/internal/http/handlers/users/subscription"
	"github.com/magabrotheeeer/subscription-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-admin/internal/metrics"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

// Services — компоненты, которые обслуживает HTTP API.
type Services struct {
	Session   *session.Manager
	Users     *userlist.Controller
	Analytics *analytics.Service
	Journal   *audit.Journal
	Metrics   *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты консоли.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		s.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/session", status.New(s.Session).ServeHTTP)
		r.Post("/session/login", login.New(logger, s.Session).ServeHTTP)
		r.Post("/session/logout", logout.New(logger, s.Session).ServeHTTP)

		// Только с активной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionGate(logger, s.Session, cfg.EntryPoint))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

			dialogs := dialog.New(logger, s.Users)
			r.Get("/users", list.New(s.Users).ServeHTTP)
			r.Post("/users/search", search.New(logger, s.Users).ServeHTTP)
			r.Post("/users/page", page.New(logger, s.Users).ServeHTTP)
			r.Post("/users/refresh", refresh.New(logger, s.Users).ServeHTTP)
			r.Delete("/users/dialog", dialogs.Close)
			r.Put("/users/{id}/subscription", subscription.New(logger, s.Users).ServeHTTP)
			r.Post("/users/{id}/block", block.New(logger, s.Users).ServeHTTP)
			r.Post("/users/{id}/dialog", dialogs.Open)
			r.Delete("/users/{id}", remove.New(logger, s.Users).ServeHTTP)
			r.Get("/analytics", analyticshandler.New(logger, s.Analytics).ServeHTTP)
			r.Get("/audit", audithandler.New(logger, s.Journal).ServeHTTP)
		})
	})

	r.Handle("/metrics", s.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
