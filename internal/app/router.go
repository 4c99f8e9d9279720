package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	audithttp "github.com/helmsman-kit/helmsman/internal/audit/http"
	"github.com/helmsman-kit/helmsman/internal/auth"
	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/observability"
	"github.com/helmsman-kit/helmsman/internal/shared"
	"github.com/helmsman-kit/helmsman/internal/users"
	"github.com/helmsman-kit/helmsman/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler  *auth.Handler
	UsersHandler *users.Handler
	AuditHandler *audithttp.Handler
	JobsHandler  *jobs.Handler

	PrincipalResolver auth.PrincipalResolver
	Guard             authz.Middleware
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Helmsman defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.PrincipalResolver.Middleware)
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(r, params.Guard)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.Guard.Require(authz.ActionRunMaintenance))
				params.JobsHandler.MountRoutes(r)
			})
		}
	})

	return r
}
