package authz

// Check is a declarative permission rule: an operation passes when the
// principal's role reaches RequiredRole, or when AllowSelf is set and
// the principal is acting on its own account (UserID matches).
type Check struct {
	RequiredRole Role
	AllowSelf    bool
	UserID       int64
}

// HasPermission decides whether the principal satisfies the check.
//
// Evaluation order: no principal denies everything; an admin passes
// everything; otherwise the role floor is compared, with the self
// override applied last. Decisions are always booleans so a caller can
// never mistake an error path for an allow.
func HasPermission(p *Principal, check Check) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	if check.RequiredRole != "" {
		if p.Role == RoleUser && check.RequiredRole != RoleUser {
			return allowSelf(p, check)
		}
		if p.Role == RoleModerator && check.RequiredRole == RoleAdmin {
			return allowSelf(p, check)
		}
		return true
	}
	return allowSelf(p, check)
}

func allowSelf(p *Principal, check Check) bool {
	return check.AllowSelf && check.UserID != 0 && check.UserID == p.ID
}
