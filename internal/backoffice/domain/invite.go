package domain

import "time"

// Invite onboards office staff. The opaque token is stored fingerprinted;
// redeeming it creates an active user with an office membership.
type Invite struct {
	ID         string
	TokenHash  string
	OfficeID   string
	OfficeRole OfficeRole
	CreatedBy  string
	ExpiresAt  time.Time
	Used       bool
	UsedBy     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
