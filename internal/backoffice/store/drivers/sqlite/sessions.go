package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, access_hash, refresh_hash, ip, user_agent,
	expires_at, terminated_at, created_at, updated_at`

func (r *sessionsRepo) scanSession(row *sql.Row) (domain.Session, error) {
	var (
		s          domain.Session
		terminated sql.NullTime
	)

	err := row.Scan(
		&s.ID, &s.UserID, &s.AccessHash, &s.RefreshHash, &s.IP, &s.UserAgent,
		&s.ExpiresAt, &terminated, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.TerminatedAt = mapNullTimePtr(terminated)
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, access_hash, refresh_hash, ip,
			user_agent, expires_at, terminated_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		s.ID, s.UserID, s.AccessHash, s.RefreshHash, s.IP, s.UserAgent,
		s.ExpiresAt, now, now,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetLiveSessionByRefreshHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE refresh_hash = ? AND terminated_at IS NULL`, hash)
	return r.scanSession(row)
}

// RotateSession is a single conditional update: the WHERE clause only
// matches a live session still holding the old fingerprint, so of two
// concurrent refreshes exactly one sees RowsAffected == 1.
func (r *sessionsRepo) RotateSession(ctx context.Context, oldRefreshHash, newAccessHash, newRefreshHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET access_hash = ?, refresh_hash = ?, expires_at = ?, updated_at = ?
		WHERE refresh_hash = ? AND terminated_at IS NULL`,
		newAccessHash, newRefreshHash, expiresAt, time.Now().UTC(), oldRefreshHash,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) TerminateSessionByAccessHash(ctx context.Context, userID, accessHash string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET terminated_at = ?, updated_at = ?
		WHERE user_id = ? AND access_hash = ? AND terminated_at IS NULL`,
		at, time.Now().UTC(), userID, accessHash,
	)
	return err
}

func (r *sessionsRepo) TerminateAllUserSessions(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET terminated_at = ?, updated_at = ?
		WHERE user_id = ? AND terminated_at IS NULL`,
		at, time.Now().UTC(), userID,
	)
	return err
}
