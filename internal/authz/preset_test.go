package authz

import "testing"

func TestPresetCatalog(t *testing.T) {
	cases := []struct {
		action       string
		requiredRole Role
		allowSelf    bool
	}{
		{ActionCreateUser, RoleAdmin, false},
		{ActionEditUser, RoleModerator, true},
		{ActionDeleteUser, RoleAdmin, false},
		{ActionViewUsers, RoleModerator, false},
		{ActionEditOwnProfile, "", true},
		{ActionDeleteOwnAccount, "", true},
		{ActionViewAuditLog, RoleAdmin, false},
		{ActionRunMaintenance, RoleAdmin, false},
	}
	for _, tc := range cases {
		check := PresetFor(tc.action, 12)
		if check.RequiredRole != tc.requiredRole {
			t.Errorf("%s: required role %q, want %q", tc.action, check.RequiredRole, tc.requiredRole)
		}
		if check.AllowSelf != tc.allowSelf {
			t.Errorf("%s: allowSelf %v, want %v", tc.action, check.AllowSelf, tc.allowSelf)
		}
		if check.UserID != 12 {
			t.Errorf("%s: target id not stamped into check", tc.action)
		}
	}
}

func TestPresetForUnknownActionFailsClosed(t *testing.T) {
	check := PresetFor("users.obliterate", 1)
	if HasPermission(&Principal{ID: 1, Role: RoleModerator}, check) {
		t.Fatalf("unknown action must require admin")
	}
	if !HasPermission(&Principal{ID: 1, Role: RoleAdmin}, check) {
		t.Fatalf("admin still passes the fallback check")
	}
}

func TestPresetScenarios(t *testing.T) {
	user := &Principal{ID: 1, Role: RoleUser}
	mod := &Principal{ID: 2, Role: RoleModerator}
	admin := &Principal{ID: 3, Role: RoleAdmin}

	if HasPermission(user, PresetFor(ActionCreateUser, 0)) || HasPermission(mod, PresetFor(ActionCreateUser, 0)) {
		t.Fatalf("only admins create accounts")
	}
	if !HasPermission(admin, PresetFor(ActionCreateUser, 0)) {
		t.Fatalf("admin creates accounts")
	}
	if !HasPermission(mod, PresetFor(ActionViewUsers, 0)) {
		t.Fatalf("moderators list users")
	}
	if HasPermission(user, PresetFor(ActionViewUsers, 0)) {
		t.Fatalf("plain users do not list users")
	}
	// Anyone edits self through the editUser preset's self override.
	if !HasPermission(user, PresetFor(ActionEditUser, user.ID)) {
		t.Fatalf("self edit must pass")
	}
	if HasPermission(user, PresetFor(ActionEditUser, 99)) {
		t.Fatalf("plain user must not edit someone else")
	}
	if !HasPermission(user, PresetFor(ActionEditOwnProfile, user.ID)) {
		t.Fatalf("editOwnProfile is self-only, no role floor")
	}
	if !HasPermission(user, PresetFor(ActionDeleteOwnAccount, user.ID)) {
		t.Fatalf("deleteOwnAccount preset allows self as written")
	}
	if !HasPermission(admin, PresetFor(ActionViewAuditLog, 0)) || HasPermission(mod, PresetFor(ActionViewAuditLog, 0)) {
		t.Fatalf("audit log is admin-gated")
	}
}

func TestActionsListsCatalog(t *testing.T) {
	names := Actions()
	if len(names) != len(presets) {
		t.Fatalf("expected %d actions, got %d", len(presets), len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := presets[n]; !ok {
			t.Fatalf("unexpected action %q", n)
		}
		seen[n] = struct{}{}
	}
	if len(seen) != len(names) {
		t.Fatalf("duplicate action names returned")
	}
}
