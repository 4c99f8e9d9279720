package authz

import (
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/helmsman-kit/helmsman/internal/platform/httpx"
)

// Middleware wires authorization guards for HTTP handlers. Decisions
// come out of the pure check functions; this layer only maps them onto
// status codes: 401 when no principal exists, 403 on deny.
type Middleware struct {
	Logger *slog.Logger
}

// Require gates a route on the preset for the named action.
func (m Middleware) Require(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			if !HasPermission(principal, PresetFor(action, 0)) {
				m.deny(w, r, action)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireForTarget gates a route on the preset for the named action,
// stamping the target user id parsed from the URL parameter so
// AllowSelf presets can apply the self override. Handlers still run
// the relational checks; this guard only covers the preset layer.
func (m Middleware) RequireForTarget(action, urlParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			targetID, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, urlParam)), 10, 64)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Invalid Target", "")
				return
			}
			if !HasPermission(principal, PresetFor(action, targetID)) {
				m.deny(w, r, action)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, action string) {
	if m.Logger != nil {
		m.Logger.Warn("authorization denied",
			slog.String("action", action),
			slog.String("path", r.URL.Path))
	}
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
}
