package domain

import "time"

// MFAEnrollment is returned when TOTP enrollment starts. The secret and QR
// image are shown exactly once; only the secret is persisted (unconfirmed).
type MFAEnrollment struct {
	Secret    string // base32 encoded, for manual entry
	URI       string // otpauth:// provisioning URI
	QRCodePNG string // base64-encoded PNG rendering of the URI
}

// MFAChallenge is a pending second-factor step of a login whose password
// check already succeeded. The opaque challenge token is stored
// fingerprinted; the row expires quickly and caps failed attempts.
type MFAChallenge struct {
	ID        string
	UserID    string
	TokenHash string
	IP        string
	UserAgent string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MFAChallengeResponse is returned to the caller when login suspends
// pending the second factor.
type MFAChallengeResponse struct {
	MFARequired    bool   `json:"mfa_required"` // always true
	ChallengeToken string `json:"challenge_token"`
}
