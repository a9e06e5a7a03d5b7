package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, token_hash, office_id, office_role, created_by,
			expires_at, used, used_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL, ?, ?)`,
		inv.ID, inv.TokenHash, inv.OfficeID, string(inv.OfficeRole),
		inv.CreatedBy, inv.ExpiresAt, now, now,
	)
	return mapConstraint(err)
}

func (r *invitesRepo) GetActiveInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, office_id, office_role, created_by, expires_at,
			used, used_by, created_at, updated_at
		FROM invites
		WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		hash, time.Now().UTC())

	var (
		inv        domain.Invite
		officeRole string
		usedBy     sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.OfficeID, &officeRole, &inv.CreatedBy,
		&inv.ExpiresAt, &inv.Used, &usedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.OfficeRole = domain.OfficeRole(officeRole)
	inv.UsedBy = mapNullString(usedBy)
	return inv, nil
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, inviteID, usedByUserID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invites SET used = 1, used_by = ?, updated_at = ? WHERE id = ?`,
		usedByUserID, time.Now().UTC(), inviteID)
	return err
}
