package jwtx_test

import (
	"testing"
	"time"

	"github.com/ledgerline/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const issuer = "backoffice-test"

func TestSignAndVerify(t *testing.T) {
	h := jwtx.NewHS256([]byte("access-secret"), issuer, jwtx.KindAccess)

	claims := jwtx.NewClaims(
		jwtx.KindAccess,
		"01JTESTUSER0000000000000000",
		"ana@example.com",
		"office_admin",
		time.Hour,
		issuer,
		time.Now(),
	)

	raw, err := h.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01JTESTUSER0000000000000000", got.Subject)
	require.Equal(t, "ana@example.com", got.Email)
	require.Equal(t, "office_admin", got.Role)
	require.Equal(t, jwtx.KindAccess, got.Kind)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := jwtx.NewHS256([]byte("secret-a"), issuer, jwtx.KindAccess)
	verifier := jwtx.NewHS256([]byte("secret-b"), issuer, jwtx.KindAccess)

	raw, err := signer.Sign(jwtx.NewClaims(
		jwtx.KindAccess, "user", "u@example.com", "client", time.Hour, issuer, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	// Same secret, but an access verifier must not accept refresh tokens.
	secret := []byte("shared")
	refreshSigner := jwtx.NewHS256(secret, issuer, jwtx.KindRefresh)
	accessVerifier := jwtx.NewHS256(secret, issuer, jwtx.KindAccess)

	raw, err := refreshSigner.Sign(jwtx.NewClaims(
		jwtx.KindRefresh, "user", "u@example.com", "client", time.Hour, issuer, time.Now()))
	require.NoError(t, err)

	_, err = accessVerifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrKind)
}

func TestVerifyRejectsExpired(t *testing.T) {
	h := jwtx.NewHS256([]byte("secret"), issuer, jwtx.KindAccess)

	raw, err := h.Sign(jwtx.NewClaims(
		jwtx.KindAccess, "user", "u@example.com", "client",
		time.Minute, issuer, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	signer := jwtx.NewHS256([]byte("secret"), "other-issuer", jwtx.KindAccess)
	verifier := jwtx.NewHS256([]byte("secret"), issuer, jwtx.KindAccess)

	raw, err := signer.Sign(jwtx.NewClaims(
		jwtx.KindAccess, "user", "u@example.com", "client", time.Hour, "other-issuer", time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	h := jwtx.NewHS256([]byte("secret"), issuer, jwtx.KindAccess)

	_, err := h.Verify("definitely.not.ajwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)

	_, err = h.Verify("")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestValidateExpiry(t *testing.T) {
	t.Run("live token", func(t *testing.T) {
		c := jwtx.NewClaims(jwtx.KindAccess, "u", "", "", time.Hour, issuer, time.Now())
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		c := jwtx.NewClaims(jwtx.KindAccess, "u", "", "", time.Minute, issuer, time.Now().Add(-time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewClaims(jwtx.KindAccess, "u", "", "", time.Hour, issuer, time.Now().Add(time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})
}
