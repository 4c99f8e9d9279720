package auth

import (
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/shared"
)

// PrincipalResolver loads the acting principal for each request from
// the session store. Every downstream decision reads the explicit
// *authz.Principal it places in context; a lookup failure leaves the
// principal nil so authorization fails closed rather than erroring
// open.
type PrincipalResolver struct {
	Service *Service
	Logger  *slog.Logger
}

// Middleware resolves the session user into a principal in context.
func (pr PrincipalResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := shared.SessionFromContext(ctx)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimSpace(sess.User())
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if pr.Logger != nil {
				pr.Logger.Error("parse session user id", slog.String("value", raw))
			}
			next.ServeHTTP(w, r)
			return
		}
		principal, err := pr.Service.ResolvePrincipal(ctx, userID)
		if err != nil {
			if pr.Logger != nil {
				pr.Logger.Error("resolve principal", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		if principal != nil {
			ctx = authz.ContextWithPrincipal(ctx, principal)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
