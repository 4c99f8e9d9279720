package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/helmsman-kit/helmsman/internal/authz"
)

const exportRateLimit = 10
const exportRateWindow = time.Minute

// MountRoutes registers the audit timeline and CSV export endpoints.
// Both sit behind the admin-gated audit preset.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(exportRateLimit, exportRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Group(func(gr chi.Router) {
		gr.Use(guard.Require(authz.ActionViewAuditLog))
		gr.Get("/audit", h.handleTimeline)
		gr.With(limiter).Get("/audit/export", h.handleExport)
	})
}
