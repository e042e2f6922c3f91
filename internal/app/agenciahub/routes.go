package agenciahub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	accountusage "github.com/agenciahub/agenciahub/internal/http/handlers/account/usage"
	"github.com/agenciahub/agenciahub/internal/http/handlers/auth/login"
	"github.com/agenciahub/agenciahub/internal/http/handlers/auth/register"
	clientcreate "github.com/agenciahub/agenciahub/internal/http/handlers/client/create"
	clientlist "github.com/agenciahub/agenciahub/internal/http/handlers/client/list"
	clientread "github.com/agenciahub/agenciahub/internal/http/handlers/client/read"
	clientremove "github.com/agenciahub/agenciahub/internal/http/handlers/client/remove"
	clientupdate "github.com/agenciahub/agenciahub/internal/http/handlers/client/update"
	diagnosticcreate "github.com/agenciahub/agenciahub/internal/http/handlers/diagnostic/create"
	diagnosticlist "github.com/agenciahub/agenciahub/internal/http/handlers/diagnostic/list"
	diagnosticread "github.com/agenciahub/agenciahub/internal/http/handlers/diagnostic/read"
	"github.com/agenciahub/agenciahub/internal/http/handlers/health"
	meetingcreate "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/create"
	meetinglist "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/list"
	meetingread "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/read"
	meetingremove "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/remove"
	meetingupdate "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/update"
	meetingupdatestatus "github.com/agenciahub/agenciahub/internal/http/handlers/meeting/updatestatus"
	taskcomplete "github.com/agenciahub/agenciahub/internal/http/handlers/task/complete"
	taskcreate "github.com/agenciahub/agenciahub/internal/http/handlers/task/create"
	tasklist "github.com/agenciahub/agenciahub/internal/http/handlers/task/list"
	taskremove "github.com/agenciahub/agenciahub/internal/http/handlers/task/remove"
	taskupdate "github.com/agenciahub/agenciahub/internal/http/handlers/task/update"
	timelinelist "github.com/agenciahub/agenciahub/internal/http/handlers/timeline/list"
	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	accountservice "github.com/agenciahub/agenciahub/internal/services/account"
	authservice "github.com/agenciahub/agenciahub/internal/services/auth"
	clientservice "github.com/agenciahub/agenciahub/internal/services/client"
	diagnosticservice "github.com/agenciahub/agenciahub/internal/services/diagnostic"
	meetingservice "github.com/agenciahub/agenciahub/internal/services/meeting"
	taskservice "github.com/agenciahub/agenciahub/internal/services/task"
	timelineservice "github.com/agenciahub/agenciahub/internal/services/timeline"
)

// Services bundles everything the router needs.
type Services struct {
	Auth       *authservice.Service
	Client     *clientservice.Service
	Task       *taskservice.Service
	Meeting    *meetingservice.Service
	Diagnostic *diagnosticservice.Service
	Timeline   *timelineservice.Service
	Account    *accountservice.Service
	Users      middlewarectx.UserService
	Engine     *entitlement.Engine
}

// RegisterRoutes registers all routes of the application. Authenticated
// routes pass through the JWT middleware, then the plan gate (trial and
// premium expiry, 403) before any handler-level quota check runs.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// JWT-protected group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.PlanGateMiddleware(logger, s.Users, s.Engine))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients", clientcreate.New(logger, s.Client).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, s.Client).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, s.Client).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, s.Client).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, s.Client).ServeHTTP)

			r.Post("/tasks", taskcreate.New(logger, s.Task).ServeHTTP)
			r.Get("/tasks", tasklist.New(logger, s.Task).ServeHTTP)
			r.Put("/tasks/{id}", taskupdate.New(logger, s.Task).ServeHTTP)
			r.Post("/tasks/{id}/complete", taskcomplete.New(logger, s.Task).ServeHTTP)
			r.Delete("/tasks/{id}", taskremove.New(logger, s.Task).ServeHTTP)

			r.Post("/meetings", meetingcreate.New(logger, s.Meeting).ServeHTTP)
			r.Get("/meetings", meetinglist.New(logger, s.Meeting).ServeHTTP)
			r.Get("/meetings/{id}", meetingread.New(logger, s.Meeting).ServeHTTP)
			r.Put("/meetings/{id}", meetingupdate.New(logger, s.Meeting).ServeHTTP)
			r.Patch("/meetings/{id}/status", meetingupdatestatus.New(logger, s.Meeting).ServeHTTP)
			r.Delete("/meetings/{id}", meetingremove.New(logger, s.Meeting).ServeHTTP)

			r.Post("/diagnostics", diagnosticcreate.New(logger, s.Diagnostic).ServeHTTP)
			r.Get("/diagnostics", diagnosticlist.New(logger, s.Diagnostic).ServeHTTP)
			r.Get("/diagnostics/{id}", diagnosticread.New(logger, s.Diagnostic).ServeHTTP)

			r.Get("/timeline", timelinelist.New(logger, s.Timeline).ServeHTTP)
			r.Get("/account/usage", accountusage.New(logger, s.Account).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
