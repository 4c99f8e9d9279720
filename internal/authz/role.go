package authz

// Role is a privilege tier assigned to every user account.
type Role string

const (
	// RoleUser is the default tier for regular accounts.
	RoleUser Role = "user"
	// RoleModerator may manage regular users.
	RoleModerator Role = "moderator"
	// RoleAdmin has blanket authority over every operation.
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw role string to a Role. Missing or unknown
// values fall back to RoleUser so corrupted data never gains privilege.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleModerator:
		return RoleModerator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Level returns the numeric privilege level used for ordering
// comparisons. Unknown roles rank below every known role.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r carries at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
