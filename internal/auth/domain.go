package auth

import (
	"time"

	"github.com/helmsman-kit/helmsman/internal/authz"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
