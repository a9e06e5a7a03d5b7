package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
)

type mfaChallengesRepo struct {
	db dbtx
}

const mfaChallengeColumns = `id, user_id, token_hash, ip, user_agent, attempts, expires_at, created_at`

func (r *mfaChallengesRepo) scanChallenge(row *sql.Row) (domain.MFAChallenge, error) {
	var c domain.MFAChallenge
	err := row.Scan(
		&c.ID, &c.UserID, &c.TokenHash, &c.IP, &c.UserAgent,
		&c.Attempts, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		return domain.MFAChallenge{}, mapNotFound(err)
	}
	return c, nil
}

func (r *mfaChallengesRepo) CreateMFAChallenge(ctx context.Context, c domain.MFAChallenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mfa_challenges (id, user_id, token_hash, ip, user_agent,
			attempts, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.TokenHash, c.IP, c.UserAgent,
		c.Attempts, c.ExpiresAt, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *mfaChallengesRepo) GetMFAChallengeByTokenHash(ctx context.Context, hash string) (domain.MFAChallenge, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mfaChallengeColumns+` FROM mfa_challenges
		 WHERE token_hash = ? AND expires_at > ?`,
		hash, time.Now().UTC())
	return r.scanChallenge(row)
}

func (r *mfaChallengesRepo) IncrementMFAChallengeAttempts(ctx context.Context, id string) (domain.MFAChallenge, error) {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE mfa_challenges SET attempts = attempts + 1 WHERE id = ?`, id); err != nil {
		return domain.MFAChallenge{}, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+mfaChallengeColumns+` FROM mfa_challenges WHERE id = ?`, id)
	return r.scanChallenge(row)
}

func (r *mfaChallengesRepo) DeleteMFAChallenge(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mfa_challenges WHERE id = ?`, id)
	return err
}
