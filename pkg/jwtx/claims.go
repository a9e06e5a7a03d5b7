package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per-service via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token kinds embedded in the "kind" claim so an access token can never be
// replayed against the refresh endpoint (and vice versa), even though both
// are HS256-signed JWTs.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims are the self-contained claims carried by both token kinds. The
// subject is the user id; email and role travel with the access token so
// request authentication never needs a store lookup.
type Claims struct {
	jwt.RegisteredClaims

	// Kind discriminates access from refresh tokens.
	Kind string `json:"kind,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// Role name of the authenticated user (e.g. "office_admin").
	Role string `json:"role,omitempty"`
}

// NewClaims builds minimally-correct claims for the given token kind.
func NewClaims(
	kind, subject, email, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind:  kind,
		Email: email,
		Role:  role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
