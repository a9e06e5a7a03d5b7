package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/internal/backoffice/store/drivers/sqlite"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/ledgerline/backoffice/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

var pepperOnce sync.Once

func initPepper(t *testing.T) {
	t.Helper()
	pepperOnce.Do(func() {
		cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	})
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTokenService(s store.Store) *TokenService {
	return &TokenService{
		Store:         s,
		AccessSigner:  jwtx.NewHS256([]byte("access-secret"), "test-issuer", jwtx.KindAccess),
		RefreshSigner: jwtx.NewHS256([]byte("refresh-secret"), "test-issuer", jwtx.KindRefresh),
		Issuer:        "test-issuer",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

func enableTOTP(t *testing.T, s store.Store, userID string) string {
	t.Helper()

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: userID})
	require.NoError(t, err)

	secret := key.Secret()
	require.NoError(t, s.Users().SetMFASecret(context.Background(), userID, &secret))
	require.NoError(t, s.Users().EnableMFA(context.Background(), userID, time.Now().UTC()))
	return secret
}

func createUser(t *testing.T, s store.Store, email, password string, role domain.Role) domain.User {
	t.Helper()
	initPepper(t)

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), user))
	return user
}
