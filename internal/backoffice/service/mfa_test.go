package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func newMFAService(t *testing.T) (*MFAService, domain.User) {
	t.Helper()

	st := newTestStore(t)
	user := createUser(t, st, "mfa@example.com", "password-123", domain.RoleClient)
	return &MFAService{Store: st, Issuer: "backoffice-test"}, user
}

func TestMFAEnrollmentFlow(t *testing.T) {
	ctx := context.Background()
	svc, user := newMFAService(t)

	enrollment, err := svc.BeginEnrollment(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URI, "otpauth://totp/")
	require.Contains(t, enrollment.URI, "backoffice-test")

	png, err := base64.StdEncoding.DecodeString(enrollment.QRCodePNG)
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG"), png[:4])

	// Pending enrollment does not enable MFA.
	pending, err := svc.Store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, pending.MFAActive())

	t.Run("wrong code leaves the pending secret intact", func(t *testing.T) {
		require.ErrorIs(t, svc.ConfirmEnrollment(ctx, user.ID, "000000"), ErrMFAInvalidCode)

		u, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, u.MFASecret)
		require.Equal(t, enrollment.Secret, *u.MFASecret)
	})

	t.Run("restart overwrites the pending secret", func(t *testing.T) {
		second, err := svc.BeginEnrollment(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, enrollment.Secret, second.Secret)

		code, err := totp.GenerateCode(second.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmEnrollment(ctx, user.ID, code))

		enabled, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, enabled.MFAActive())
	})

	t.Run("enrolling again is refused", func(t *testing.T) {
		_, err := svc.BeginEnrollment(ctx, user.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
		require.ErrorIs(t, svc.ConfirmEnrollment(ctx, user.ID, "123456"), ErrMFAAlreadyEnabled)
	})
}

func TestConfirmEnrollmentWithoutPendingSecret(t *testing.T) {
	ctx := context.Background()
	svc, user := newMFAService(t)

	require.ErrorIs(t, svc.ConfirmEnrollment(ctx, user.ID, "123456"), ErrMFANotEnrolled)
}

func TestVerifyLoginWindow(t *testing.T) {
	ctx := context.Background()
	svc, user := newMFAService(t)
	secret := enableTOTP(t, svc.Store, user.ID)

	now := time.Now()

	t.Run("current step accepted", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, now)
		require.NoError(t, err)
		require.NoError(t, svc.VerifyLogin(ctx, user.ID, code))
	})

	t.Run("adjacent steps accepted", func(t *testing.T) {
		prev, err := totp.GenerateCode(secret, now.Add(-30*time.Second))
		require.NoError(t, err)
		require.NoError(t, svc.VerifyLogin(ctx, user.ID, prev))

		next, err := totp.GenerateCode(secret, now.Add(30*time.Second))
		require.NoError(t, err)
		require.NoError(t, svc.VerifyLogin(ctx, user.ID, next))
	})

	t.Run("three steps away rejected", func(t *testing.T) {
		stale, err := totp.GenerateCode(secret, now.Add(-90*time.Second))
		require.NoError(t, err)
		require.ErrorIs(t, svc.VerifyLogin(ctx, user.ID, stale), ErrMFAInvalidCode)
	})

	t.Run("in-window replay accepted", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, now)
		require.NoError(t, err)
		require.NoError(t, svc.VerifyLogin(ctx, user.ID, code))
		require.NoError(t, svc.VerifyLogin(ctx, user.ID, code))
	})
}

func TestVerifyLoginRequiresEnabledMFA(t *testing.T) {
	ctx := context.Background()
	svc, user := newMFAService(t)

	require.ErrorIs(t, svc.VerifyLogin(ctx, user.ID, "123456"), ErrMFANotEnabled)
}

func TestDisableRequiresValidCode(t *testing.T) {
	ctx := context.Background()
	svc, user := newMFAService(t)
	secret := enableTOTP(t, svc.Store, user.ID)

	require.ErrorIs(t, svc.Disable(ctx, user.ID, "000000"), ErrMFAInvalidCode)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Disable(ctx, user.ID, code))

	// Disabling clears both the flag and the secret.
	u, err := svc.Store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, u.MFAActive())
	require.Nil(t, u.MFASecret)

	require.ErrorIs(t, svc.Disable(ctx, user.ID, code), ErrMFANotEnabled)
}
