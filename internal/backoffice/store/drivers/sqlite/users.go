package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, role, status, failed_attempts,
	locked_until, last_login_at, mfa_enabled, mfa_secret, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var (
		u           domain.User
		role        string
		status      string
		lockedUntil sql.NullTime
		lastLogin   sql.NullTime
		mfaEnabled  sql.NullTime
		mfaSecret   sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &status,
		&u.FailedAttempts, &lockedUntil, &lastLogin, &mfaEnabled, &mfaSecret,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)
	u.LockedUntil = mapNullTimePtr(lockedUntil)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	u.MFAEnabled = mapNullTimePtr(mfaEnabled)
	u.MFASecret = mapNullStringPtr(mfaSecret)

	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return r.scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, status,
			failed_attempts, locked_until, last_login_at, mfa_enabled, mfa_secret,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.Name,
		u.PasswordHash,
		string(u.Role),
		string(u.Status),
		u.FailedAttempts,
		mapOptionalTime(u.LockedUntil),
		mapOptionalTime(u.LastLoginAt),
		mapOptionalTime(u.MFAEnabled),
		mapOptionalString(u.MFASecret),
		now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) RecordLoginFailure(
	ctx context.Context,
	userID string,
	attempts int,
	lockedUntil *time.Time,
	status domain.UserStatus,
) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET failed_attempts = ?, locked_until = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		attempts, mapOptionalTime(lockedUntil), string(status), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET failed_attempts = 0, locked_until = NULL, status = ?, last_login_at = ?, updated_at = ?
		WHERE id = ?`,
		string(domain.UserStatusActive), at, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) SetMFASecret(ctx context.Context, userID string, secret *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, updated_at = ? WHERE id = ?`,
		mapOptionalString(secret), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, updated_at = ? WHERE id = ?`,
		at, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = NULL, mfa_secret = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
