package users

import (
	"time"

	"github.com/helmsman-kit/helmsman/internal/authz"
)

// User represents a user account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      authz.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal converts a stored account into the actor representation
// the authorization core consumes.
func (u User) Principal() *authz.Principal {
	return &authz.Principal{ID: u.ID, Role: u.Role}
}

// Stats aggregates dashboard figures over the user table.
type Stats struct {
	Total         int
	Active        int
	Admins        int
	Moderators    int
	Users         int
	RecentSignups int
}
