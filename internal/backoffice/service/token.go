package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/ledgerline/backoffice/pkg/jwtx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrForbidden          = errors.New("forbidden")
)

// TokenService issues and verifies the access/refresh token pair and owns
// the session registry. Access and refresh tokens are signed with
// independent secrets so neither can stand in for the other.
type TokenService struct {
	Store         store.Store
	AccessSigner  *jwtx.HS256
	RefreshSigner *jwtx.HS256
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Issue signs a fresh access/refresh pair for an already-authenticated user
// and records exactly one new session row holding both fingerprints.
func (s *TokenService) Issue(ctx context.Context, user domain.User, origin domain.Origin) (*domain.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.AccessSigner.Sign(jwtx.NewClaims(
		jwtx.KindAccess, user.ID, user.Email, string(user.Role), s.AccessTTL, s.Issuer, now,
	))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.RefreshSigner.Sign(jwtx.NewClaims(
		jwtx.KindRefresh, user.ID, "", "", s.RefreshTTL, s.Issuer, now,
	))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	session := domain.Session{
		ID:          idx.New().String(),
		UserID:      user.ID,
		AccessHash:  cryptox.FingerprintToken(accessToken),
		RefreshHash: cryptox.FingerprintToken(refreshToken),
		IP:          origin.IP,
		UserAgent:   origin.UserAgent,
		ExpiresAt:   now.Add(s.AccessTTL),
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// Refresh exchanges a live refresh token for a new pair and rotates both
// fingerprints on the existing session row. Every failure mode the caller
// can observe (expired, revoked, already rotated, forged) collapses into
// ErrInvalidRefresh.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	claims, err := s.RefreshSigner.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	oldHash := cryptox.FingerprintToken(refreshToken)

	session, err := s.Store.Sessions().GetLiveSessionByRefreshHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if session.UserID != claims.Subject {
		return nil, ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrInvalidRefresh
	}

	newAccess, err := s.AccessSigner.Sign(jwtx.NewClaims(
		jwtx.KindAccess, user.ID, user.Email, string(user.Role), s.AccessTTL, s.Issuer, now,
	))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	newRefresh, err := s.RefreshSigner.Sign(jwtx.NewClaims(
		jwtx.KindRefresh, user.ID, "", "", s.RefreshTTL, s.Issuer, now,
	))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	// Conditional rotation: of two concurrent refreshes with the same token,
	// exactly one matches the old fingerprint and wins.
	err = s.Store.Sessions().RotateSession(ctx, oldHash,
		cryptox.FingerprintToken(newAccess),
		cryptox.FingerprintToken(newRefresh),
		now.Add(s.AccessTTL),
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh lost rotation race", slog.String("user_id", user.ID))
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// Logout terminates the session holding the presented access token.
// Idempotent: an absent or already-terminated session is not an error.
func (s *TokenService) Logout(ctx context.Context, userID, accessToken string) error {
	return s.Store.Sessions().TerminateSessionByAccessHash(
		ctx, userID, cryptox.FingerprintToken(accessToken), time.Now().UTC())
}

// LogoutAll terminates every live session of the user in one statement.
func (s *TokenService) LogoutAll(ctx context.Context, userID string) error {
	return s.Store.Sessions().TerminateAllUserSessions(ctx, userID, time.Now().UTC())
}

// Authenticate verifies an access token's signature and expiry and returns
// the principal. It deliberately does not consult the session registry, so
// a terminated session's access token stays valid until natural expiry.
func (s *TokenService) Authenticate(bearer string) (domain.Principal, error) {
	claims, err := s.AccessSigner.Verify(bearer)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  role,
	}, nil
}

// Authorize reports whether the principal's role is acceptable. An empty
// list means any authenticated user; the system administrator passes every
// check.
func (s *TokenService) Authorize(p domain.Principal, roles ...domain.Role) bool {
	if len(roles) == 0 {
		return true
	}
	if p.Role == domain.RoleSystemAdmin {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
