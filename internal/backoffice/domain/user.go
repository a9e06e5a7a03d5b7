package domain

import "time"

// UserStatus is the account lifecycle state. Accounts are never hard-deleted;
// they transition to inactive instead.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusLocked   UserStatus = "locked"
)

type User struct {
	ID             string
	Email          string // stored lowercased, unique
	Name           string
	PasswordHash   string // argon2id encoded
	Role           Role
	Status         UserStatus
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	MFAEnabled     *time.Time // timestamp when MFA was confirmed (nil = off)
	MFASecret      *string    // TOTP secret, base32; nil unless enrolled or pending
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MFAActive reports whether the user has a confirmed TOTP secret.
func (u User) MFAActive() bool {
	return u.MFAEnabled != nil && u.MFASecret != nil && *u.MFASecret != ""
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
