package domain

import "time"

// Session binds one live access/refresh token pair to a user. Refresh
// rotates both fingerprints on the same row; logout terminates the row
// rather than deleting it.
type Session struct {
	ID           string
	UserID       string
	AccessHash   string // fingerprint of the access JWT
	RefreshHash  string // fingerprint of the refresh JWT
	IP           string // audit only
	UserAgent    string // audit only
	ExpiresAt    time.Time
	TerminatedAt *time.Time // nil while live
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Live reports whether the session has not been terminated. Expiry is
// checked lazily against the supplied clock, never swept in the background.
func (s Session) Live(now time.Time) bool {
	return s.TerminatedAt == nil && now.Before(s.ExpiresAt)
}

// Origin captures request metadata recorded on session creation.
type Origin struct {
	IP        string
	UserAgent string
}
