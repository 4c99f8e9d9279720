package authz

import "testing"

func TestHasPermissionDeniesWithoutPrincipal(t *testing.T) {
	checks := []Check{
		{},
		{RequiredRole: RoleUser},
		{RequiredRole: RoleAdmin},
		{AllowSelf: true, UserID: 1},
	}
	for _, check := range checks {
		if HasPermission(nil, check) {
			t.Errorf("nil principal must be denied for %+v", check)
		}
	}
}

func TestHasPermissionAdminBypassesEverything(t *testing.T) {
	admin := &Principal{ID: 7, Role: RoleAdmin}
	checks := []Check{
		{},
		{RequiredRole: RoleAdmin},
		{RequiredRole: RoleModerator},
		{AllowSelf: true, UserID: 99},
	}
	for _, check := range checks {
		if !HasPermission(admin, check) {
			t.Errorf("admin must pass %+v", check)
		}
	}
}

func TestHasPermissionRoleFloor(t *testing.T) {
	cases := []struct {
		name  string
		role  Role
		check Check
		want  bool
	}{
		{"user meets user floor", RoleUser, Check{RequiredRole: RoleUser}, true},
		{"user blocked by moderator floor", RoleUser, Check{RequiredRole: RoleModerator}, false},
		{"user blocked by admin floor", RoleUser, Check{RequiredRole: RoleAdmin}, false},
		{"moderator meets user floor", RoleModerator, Check{RequiredRole: RoleUser}, true},
		{"moderator meets moderator floor", RoleModerator, Check{RequiredRole: RoleModerator}, true},
		{"moderator blocked by admin floor", RoleModerator, Check{RequiredRole: RoleAdmin}, false},
		{"no floor no self denies user", RoleUser, Check{}, false},
		{"no floor no self denies moderator", RoleModerator, Check{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Principal{ID: 10, Role: tc.role}
			if got := HasPermission(p, tc.check); got != tc.want {
				t.Fatalf("HasPermission(%s, %+v) = %v, want %v", tc.role, tc.check, got, tc.want)
			}
		})
	}
}

func TestHasPermissionSelfOverride(t *testing.T) {
	p := &Principal{ID: 42, Role: RoleUser}

	// Role alone would deny, the self override allows.
	if !HasPermission(p, Check{RequiredRole: RoleModerator, AllowSelf: true, UserID: 42}) {
		t.Fatalf("self override must allow the principal's own account")
	}
	if HasPermission(p, Check{RequiredRole: RoleModerator, AllowSelf: true, UserID: 43}) {
		t.Fatalf("self override must not apply to another account")
	}
	if HasPermission(p, Check{RequiredRole: RoleModerator, UserID: 42}) {
		t.Fatalf("matching id without AllowSelf must not allow")
	}
	// Self-only preset shape, no role floor.
	if !HasPermission(p, Check{AllowSelf: true, UserID: 42}) {
		t.Fatalf("self-only check must allow own account")
	}
	if HasPermission(p, Check{AllowSelf: true}) {
		t.Fatalf("self-only check without a target must deny")
	}
}

func TestHasPermissionIsPure(t *testing.T) {
	p := &Principal{ID: 3, Role: RoleModerator}
	check := Check{RequiredRole: RoleModerator}
	first := HasPermission(p, check)
	for i := 0; i < 100; i++ {
		if HasPermission(p, check) != first {
			t.Fatalf("identical inputs must yield identical results")
		}
	}
}

func TestIsAdmin(t *testing.T) {
	if (*Principal)(nil).IsAdmin() {
		t.Fatal("nil principal is not an admin")
	}
	if (&Principal{ID: 1, Role: RoleModerator}).IsAdmin() {
		t.Fatal("moderator is not an admin")
	}
	if !(&Principal{ID: 1, Role: RoleAdmin}).IsAdmin() {
		t.Fatal("admin principal must report admin")
	}
}
