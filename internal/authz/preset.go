package authz

// Named operations gated by the preset catalog.
const (
	ActionCreateUser       = "users.create"
	ActionEditUser         = "users.edit"
	ActionDeleteUser       = "users.delete"
	ActionViewUsers        = "users.view"
	ActionEditOwnProfile   = "profile.edit"
	ActionDeleteOwnAccount = "profile.delete"
	ActionViewAuditLog     = "audit.view"
	ActionRunMaintenance   = "jobs.run"
)

// presets is the static catalog mapping operations to their checks.
// Configuration data, never mutated at runtime.
//
// ActionDeleteOwnAccount intentionally coexists with CanDeleteUser's
// no-self-delete rule: the preset serves a self-service account-closure
// flow, the relational rule the admin user-management delete. The two
// call sites must not be unified.
var presets = map[string]Check{
	ActionCreateUser:       {RequiredRole: RoleAdmin},
	ActionEditUser:         {RequiredRole: RoleModerator, AllowSelf: true},
	ActionDeleteUser:       {RequiredRole: RoleAdmin},
	ActionViewUsers:        {RequiredRole: RoleModerator},
	ActionEditOwnProfile:   {AllowSelf: true},
	ActionDeleteOwnAccount: {AllowSelf: true},
	ActionViewAuditLog:     {RequiredRole: RoleAdmin},
	ActionRunMaintenance:   {RequiredRole: RoleAdmin},
}

// PresetFor returns the check for a named operation with the target
// user id stamped in for self-override evaluation. Unknown actions
// yield an admin-only check so a misspelled action name fails closed.
func PresetFor(action string, targetUserID int64) Check {
	check, ok := presets[action]
	if !ok {
		return Check{RequiredRole: RoleAdmin}
	}
	check.UserID = targetUserID
	return check
}

// Actions lists every operation present in the catalog.
func Actions() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
