// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusDeleted Status = "deleted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo encodes the lifecycle: active and blocked swap freely,
// either may be soft deleted, and a deleted identity can only be reactivated.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusBlocked || next == StatusDeleted
	case StatusBlocked:
		return next == StatusActive || next == StatusDeleted
	case StatusDeleted:
		return next == StatusActive
	}
	return false
}

type User struct {
	ID                    string     `db:"id"`
	Email                 string     `db:"email"`
	FirstName             string     `db:"first_name"`
	LastName              string     `db:"last_name"`
	PasswordHash          string     `db:"password_hash"`
	Role                  rbac.Role  `db:"role"`
	Status                Status     `db:"status"`
	EmailVerified         bool       `db:"email_verified"`
	VerificationTokenHash *string    `db:"verification_token_hash"`
	ResetTokenHash        *string    `db:"reset_token_hash"`
	ResetExpiresAt        *time.Time `db:"reset_expires_at"`
	Version               int        `db:"version"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

func (u *User) IsDeleted() bool {
	return u.Status == StatusDeleted
}

func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

func (u *User) Principal() rbac.Principal {
	return rbac.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}
