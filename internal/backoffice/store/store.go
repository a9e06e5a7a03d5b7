package store

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable; the engines above it stay pure logic over injected
// dependencies.
type Store interface {
	Users() Users
	Sessions() Sessions
	MFAChallenges() MFAChallenges
	Invites() Invites
	Tenants() Tenants

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by lowercased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// RecordLoginFailure writes the bumped failure counter and, when the
	// lockout threshold was hit, the lockout expiry and locked status.
	RecordLoginFailure(ctx context.Context, userID string, attempts int, lockedUntil *time.Time, status domain.UserStatus) error

	// RecordLoginSuccess resets the failure counter, clears any lockout,
	// restores active status and stamps the last-login time.
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	// UpdateStatus transitions the account lifecycle status.
	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetMFASecret writes (or clears, with nil) the pending TOTP secret
	// without touching the enabled flag.
	SetMFASecret(ctx context.Context, userID string, secret *string) error

	// EnableMFA stamps mfa_enabled for a user whose secret is confirmed.
	EnableMFA(ctx context.Context, userID string, at time.Time) error

	// DisableMFA clears both mfa_enabled and mfa_secret.
	DisableMFA(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetLiveSessionByRefreshHash returns the non-terminated session whose
	// refresh fingerprint matches.
	GetLiveSessionByRefreshHash(ctx context.Context, hash string) (domain.Session, error)

	// RotateSession replaces both token fingerprints and the expiry on the
	// session currently holding oldRefreshHash, in a single conditional
	// update. Returns ErrNotFound when the session was already rotated or
	// terminated, so exactly one of two concurrent refreshes wins.
	RotateSession(ctx context.Context, oldRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time) error

	// TerminateSessionByAccessHash terminates the live session matching the
	// user and access fingerprint. Idempotent: terminating an absent or
	// already-terminated session is not an error.
	TerminateSessionByAccessHash(ctx context.Context, userID, accessHash string, at time.Time) error

	// TerminateAllUserSessions terminates every live session for the user
	// in one statement.
	TerminateAllUserSessions(ctx context.Context, userID string, at time.Time) error
}

type MFAChallenges interface {
	// CreateMFAChallenge stores a pending second-factor login step.
	CreateMFAChallenge(ctx context.Context, c domain.MFAChallenge) error

	// GetMFAChallengeByTokenHash returns a not-yet-expired challenge.
	GetMFAChallengeByTokenHash(ctx context.Context, hash string) (domain.MFAChallenge, error)

	// IncrementMFAChallengeAttempts bumps the failed attempt counter and
	// returns the updated challenge.
	IncrementMFAChallengeAttempts(ctx context.Context, id string) (domain.MFAChallenge, error)

	// DeleteMFAChallenge removes a consumed or exhausted challenge.
	DeleteMFAChallenge(ctx context.Context, id string) error
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the fingerprint of
	// the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetActiveInviteByTokenHash returns a not-used, not-expired invite.
	GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// MarkInviteUsed sets used=1 and used_by (transaction-friendly).
	MarkInviteUsed(ctx context.Context, inviteID, usedByUserID string) error
}

// Tenants exposes the office/company graph. The identity core reads
// membership edges and owning-office ids; company records themselves belong
// to the excluded CRUD modules.
type Tenants interface {
	CreateOffice(ctx context.Context, o domain.Office) error
	CreateCompany(ctx context.Context, c domain.Company) error

	// GetCompany returns a company with its owning office id.
	GetCompany(ctx context.Context, companyID string) (domain.Company, error)

	// GetOfficeMembership returns the user's single staff membership.
	GetOfficeMembership(ctx context.Context, userID string) (domain.OfficeMembership, error)

	CreateOfficeMembership(ctx context.Context, m domain.OfficeMembership) error
	CreateCompanyMembership(ctx context.Context, m domain.CompanyMembership) error

	// SetCompanyMembershipActive flips the active flag on an edge.
	SetCompanyMembershipActive(ctx context.Context, userID, companyID string, active bool) error

	// ListActiveCompanyIDs returns company ids reachable through the
	// user's active membership edges.
	ListActiveCompanyIDs(ctx context.Context, userID string) ([]string, error)

	// HasActiveCompanyMembership answers the single-edge point query used
	// on the hot path of every company-scoped request.
	HasActiveCompanyMembership(ctx context.Context, userID, companyID string) (bool, error)

	// ListCompanyIDsByOffice returns every company owned by an office.
	ListCompanyIDsByOffice(ctx context.Context, officeID string) ([]string, error)

	// ListAllCompanyIDs enumerates every company (system-wide principals).
	ListAllCompanyIDs(ctx context.Context) ([]string, error)
}
