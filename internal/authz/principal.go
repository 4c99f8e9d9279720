package authz

import "context"

// Principal is the authenticated actor a decision is evaluated for.
// A nil *Principal means "no authenticated session"; the package never
// constructs or mutates one, it only reads what auth resolved.
type Principal struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the principal sits at the top of the hierarchy.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type principalContextKey struct{}

// ContextWithPrincipal stores the resolved principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
// Returns nil when no authenticated principal was resolved.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
