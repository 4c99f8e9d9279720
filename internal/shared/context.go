package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the request session in context. The
// resolved principal travels separately; see the authz package.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request session, or nil when the
// session middleware did not run.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
