package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrKind        = errors.New("jwtx: token kind mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies one kind of token with a dedicated symmetric
// secret. The service holds two instances with independent secrets: one for
// access tokens, one for refresh tokens.
type HS256 struct {
	secret []byte
	issuer string
	kind   string
}

// NewHS256 builds a signer/verifier for the given token kind.
func NewHS256(secret []byte, issuer, kind string) *HS256 {
	return &HS256{secret: secret, issuer: issuer, kind: kind}
}

// Sign produces a compact HS256 JWT from the claims.
func (h *HS256) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// Verify parses the token, checks the signature and standard time claims,
// and enforces issuer and token kind.
func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil && token.Valid:
		// fallthrough to claim checks below
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	default:
		return Claims{}, ErrMalformed
	}

	if h.issuer != "" && claims.Issuer != h.issuer {
		return Claims{}, ErrIssuer
	}
	if claims.Kind != h.kind {
		return Claims{}, ErrKind
	}

	return claims, nil
}
