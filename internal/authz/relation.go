package authz

// Relational rules: can this actor act on that specific target account.
// Three rules layered in strict precedence: self, admin, moderator.

// CanManageUser reports whether the actor may act on the target account
// (view detail, edit). A principal always manages its own account;
// admins manage everyone; moderators manage plain users only.
func CanManageUser(p *Principal, targetID int64, targetRole Role) bool {
	if p == nil {
		return false
	}
	if p.ID == targetID {
		return true
	}
	if p.IsAdmin() {
		return true
	}
	if p.Role == RoleModerator {
		return targetRole == RoleUser
	}
	return false
}

// CanEditUser reports whether the actor may edit the target account.
// Same rules as CanManageUser; kept as a distinct call site because
// edit and delete diverge and handlers read better naming the verb.
func CanEditUser(p *Principal, targetID int64, targetRole Role) bool {
	return CanManageUser(p, targetID, targetRole)
}

// CanDeleteUser reports whether the actor may delete the target
// account. Delete is irreversible, so its rule is strictly narrower
// than edit: never self, admin only. Moderators delete nobody.
func CanDeleteUser(p *Principal, targetID int64) bool {
	if p == nil {
		return false
	}
	if p.ID == targetID {
		return false
	}
	return p.IsAdmin()
}

// CanChangeRole reports whether the actor may change another account's
// role. Role assignment carries the same floor as account creation:
// admin only, even when the surrounding edit already passed the
// moderator gate. Different fields of the same record carry different
// authorization floors.
func CanChangeRole(p *Principal) bool {
	return HasPermission(p, PresetFor(ActionCreateUser, 0))
}
