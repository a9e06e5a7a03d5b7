package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
)

func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateOffice(ctx context.Context, o domain.Office) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO offices (id, name, created_at) VALUES (?, ?, ?)`,
		o.ID, o.Name, time.Now().UTC())
	return mapConstraint(err)
}

func (r *tenantsRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, office_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.OfficeID, c.Name, time.Now().UTC())
	return mapConstraint(err)
}

func (r *tenantsRepo) GetCompany(ctx context.Context, companyID string) (domain.Company, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, office_id, name, created_at FROM companies WHERE id = ?`, companyID)

	var c domain.Company
	if err := row.Scan(&c.ID, &c.OfficeID, &c.Name, &c.CreatedAt); err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *tenantsRepo) GetOfficeMembership(ctx context.Context, userID string) (domain.OfficeMembership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, office_id, role, created_at FROM office_memberships WHERE user_id = ?`,
		userID)

	var (
		m    domain.OfficeMembership
		role string
	)
	if err := row.Scan(&m.UserID, &m.OfficeID, &role, &m.CreatedAt); err != nil {
		return domain.OfficeMembership{}, mapNotFound(err)
	}
	m.Role = domain.OfficeRole(role)
	return m, nil
}

func (r *tenantsRepo) CreateOfficeMembership(ctx context.Context, m domain.OfficeMembership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO office_memberships (user_id, office_id, role, created_at) VALUES (?, ?, ?, ?)`,
		m.UserID, m.OfficeID, string(m.Role), time.Now().UTC())
	return mapConstraint(err)
}

func (r *tenantsRepo) CreateCompanyMembership(ctx context.Context, m domain.CompanyMembership) error {
	active := 0
	if m.Active {
		active = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO company_memberships (user_id, company_id, active, created_at) VALUES (?, ?, ?, ?)`,
		m.UserID, m.CompanyID, active, time.Now().UTC())
	return mapConstraint(err)
}

func (r *tenantsRepo) SetCompanyMembershipActive(ctx context.Context, userID, companyID string, active bool) error {
	val := 0
	if active {
		val = 1
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE company_memberships SET active = ? WHERE user_id = ? AND company_id = ?`,
		val, userID, companyID)
	return err
}

func (r *tenantsRepo) ListActiveCompanyIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT company_id FROM company_memberships WHERE user_id = ? AND active = 1 ORDER BY company_id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *tenantsRepo) HasActiveCompanyMembership(ctx context.Context, userID, companyID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM company_memberships WHERE user_id = ? AND company_id = ? AND active = 1`,
		userID, companyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *tenantsRepo) ListCompanyIDsByOffice(ctx context.Context, officeID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM companies WHERE office_id = ? ORDER BY id`, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *tenantsRepo) ListAllCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}
