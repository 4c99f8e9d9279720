package authz

import "testing"

func TestRoleLevelsAreOrdered(t *testing.T) {
	if !(RoleUser.Level() < RoleModerator.Level() && RoleModerator.Level() < RoleAdmin.Level()) {
		t.Fatalf("expected user < moderator < admin, got %d %d %d",
			RoleUser.Level(), RoleModerator.Level(), RoleAdmin.Level())
	}
	if Role("superuser").Level() != 0 {
		t.Fatalf("unknown role must rank below every known role")
	}
	if Role("").Level() != 0 {
		t.Fatalf("empty role must rank below every known role")
	}
}

func TestAtLeast(t *testing.T) {
	cases := []struct {
		role, other Role
		want        bool
	}{
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleModerator, RoleUser, true},
		{RoleModerator, RoleAdmin, false},
		{RoleUser, RoleModerator, false},
		{RoleUser, RoleUser, true},
		{Role("broken"), RoleUser, false},
	}
	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.other); got != tc.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tc.role, tc.other, got, tc.want)
		}
	}
}

func TestParseRoleDefaultsToUser(t *testing.T) {
	cases := map[string]Role{
		"admin":     RoleAdmin,
		"moderator": RoleModerator,
		"user":      RoleUser,
		"":          RoleUser,
		"root":      RoleUser,
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Errorf("ParseRole(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleModerator, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Errorf("owner is not part of the closed role set")
	}
}
