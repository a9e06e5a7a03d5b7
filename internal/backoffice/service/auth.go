package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/ledgerline/backoffice/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

const (
	// MaxFailedLogins is the consecutive-failure threshold that locks an
	// account.
	MaxFailedLogins = 5

	// LockoutDuration is how long a locked account refuses logins.
	LockoutDuration = 30 * time.Minute

	// MaxMFAAttempts caps failed code submissions per login challenge.
	MaxMFAAttempts = 5

	// DefaultChallengeTTL bounds how long a suspended login may wait for
	// its second factor.
	DefaultChallengeTTL = 5 * time.Minute
)

var ErrTooManyAttempts = errors.New("too_many_attempts")

// AccountLockedError reports a refused login on a locked account, carrying
// how long the caller has to wait.
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string { return "account_locked" }

// MFARequiredError suspends a login whose password check succeeded but
// whose account has a second factor enabled. The challenge token is opaque
// and must be presented together with a TOTP code to finish the login.
type MFARequiredError struct {
	ChallengeToken string
}

func (e *MFARequiredError) Error() string { return "mfa_required" }

// AuthService is the password and lockout engine in front of TokenService.
type AuthService struct {
	Store        store.Store
	Tokens       *TokenService
	ChallengeTTL time.Duration
}

func (s *AuthService) challengeTTL() time.Duration {
	if s.ChallengeTTL > 0 {
		return s.ChallengeTTL
	}
	return DefaultChallengeTTL
}

// Login verifies an email/password pair and either issues tokens or, for
// MFA-enabled accounts, suspends with *MFARequiredError.
//
// Failure modes are deliberately indistinguishable to the caller: unknown
// email, wrong password and non-active account all return
// ErrInvalidCredentials. Only an active lockout names itself, via
// *AccountLockedError with the remaining wait.
func (s *AuthService) Login(ctx context.Context, email, password string, origin domain.Origin) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status == domain.UserStatusInactive || user.Status == domain.UserStatusPending {
		return nil, ErrInvalidCredentials
	}

	// An active lockout short-circuits before the password check and does
	// not bump the counter.
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, &AccountLockedError{RetryAfter: user.LockedUntil.Sub(now)}
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		attempts := user.FailedAttempts + 1
		status := user.Status
		var lockedUntil *time.Time

		if attempts >= MaxFailedLogins {
			until := now.Add(LockoutDuration)
			lockedUntil = &until
			status = domain.UserStatusLocked
			l.Warn("account locked after repeated failures",
				slog.String("user_id", user.ID),
				slog.Int("attempts", attempts),
			)
		}

		if err := s.Store.Users().RecordLoginFailure(ctx, user.ID, attempts, lockedUntil, status); err != nil {
			l.Error("failed to record login failure", slog.Any("error", err), slog.String("user_id", user.ID))
		}
		return nil, ErrInvalidCredentials
	}

	// Success clears the counter and lockout before token issuance, so a
	// later issuance failure cannot undo it.
	if err := s.Store.Users().RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record login success: %w", err)
	}

	if user.MFAActive() {
		token, err := s.createChallenge(ctx, user.ID, origin, now)
		if err != nil {
			return nil, err
		}
		return nil, &MFARequiredError{ChallengeToken: token}
	}

	return s.Tokens.Issue(ctx, user, origin)
}

// CompleteMFALogin finishes a login suspended by MFARequiredError. The
// challenge caps failed codes at MaxMFAAttempts and expires on its own;
// a consumed or exhausted challenge is deleted.
func (s *AuthService) CompleteMFALogin(ctx context.Context, challengeToken, code string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	challenge, err := s.Store.MFAChallenges().GetMFAChallengeByTokenHash(
		ctx, cryptox.FingerprintToken(challengeToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if challenge.Attempts >= MaxMFAAttempts {
		_ = s.Store.MFAChallenges().DeleteMFAChallenge(ctx, challenge.ID)
		l.Warn("login challenge exhausted", slog.String("user_id", challenge.UserID))
		return nil, ErrTooManyAttempts
	}

	user, err := s.Store.Users().GetUserByID(ctx, challenge.UserID)
	if err != nil {
		return nil, err
	}
	if !user.MFAActive() {
		// MFA was disabled while the challenge was pending.
		_ = s.Store.MFAChallenges().DeleteMFAChallenge(ctx, challenge.ID)
		return nil, ErrInvalidCredentials
	}

	if !totp.Validate(code, *user.MFASecret) {
		updated, err := s.Store.MFAChallenges().IncrementMFAChallengeAttempts(ctx, challenge.ID)
		if err != nil {
			return nil, fmt.Errorf("increment challenge attempts: %w", err)
		}
		if updated.Attempts >= MaxMFAAttempts {
			_ = s.Store.MFAChallenges().DeleteMFAChallenge(ctx, challenge.ID)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrMFAInvalidCode
	}

	if err := s.Store.MFAChallenges().DeleteMFAChallenge(ctx, challenge.ID); err != nil {
		return nil, fmt.Errorf("delete login challenge: %w", err)
	}

	return s.Tokens.Issue(ctx, user, domain.Origin{IP: challenge.IP, UserAgent: challenge.UserAgent})
}

func (s *AuthService) createChallenge(ctx context.Context, userID string, origin domain.Origin, now time.Time) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate challenge token: %w", err)
	}

	challenge := domain.MFAChallenge{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		IP:        origin.IP,
		UserAgent: origin.UserAgent,
		ExpiresAt: now.Add(s.challengeTTL()),
	}
	if err := s.Store.MFAChallenges().CreateMFAChallenge(ctx, challenge); err != nil {
		return "", fmt.Errorf("create login challenge: %w", err)
	}

	return token, nil
}
