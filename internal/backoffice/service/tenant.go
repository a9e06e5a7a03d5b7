package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
)

// TenantService resolves which companies a principal may touch. Every
// company-scoped module sits behind AccessibleCompanies / CanAccess.
type TenantService struct {
	Store store.Store
}

// AccessibleCompanies materializes the principal's company set. Precedence
// is strict: the system role wins outright, office staff resolve through
// their single office, clients through their active membership edges, and
// anyone without memberships gets the empty set. Stray edges below the
// winning rule are ignored.
func (s *TenantService) AccessibleCompanies(ctx context.Context, p domain.Principal) (domain.CompanySet, error) {
	if p.Role == domain.RoleSystemAdmin {
		return domain.Wildcard(), nil
	}

	if p.Role.IsOfficeStaff() {
		membership, err := s.Store.Tenants().GetOfficeMembership(ctx, p.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.CompanySet{}, nil
			}
			return domain.CompanySet{}, fmt.Errorf("get office membership: %w", err)
		}

		ids, err := s.Store.Tenants().ListCompanyIDsByOffice(ctx, membership.OfficeID)
		if err != nil {
			return domain.CompanySet{}, fmt.Errorf("list office companies: %w", err)
		}
		return domain.CompanySet{IDs: ids}, nil
	}

	if p.Role == domain.RoleClient {
		ids, err := s.Store.Tenants().ListActiveCompanyIDs(ctx, p.ID)
		if err != nil {
			return domain.CompanySet{}, fmt.Errorf("list company memberships: %w", err)
		}
		return domain.CompanySet{IDs: ids}, nil
	}

	return domain.CompanySet{}, nil
}

// CanAccess answers the hot-path point query without materializing the
// whole set: it resolves only the edges of the one company in question.
func (s *TenantService) CanAccess(ctx context.Context, p domain.Principal, companyID string) (bool, error) {
	if p.Role == domain.RoleSystemAdmin {
		return true, nil
	}

	if p.Role.IsOfficeStaff() {
		membership, err := s.Store.Tenants().GetOfficeMembership(ctx, p.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("get office membership: %w", err)
		}

		company, err := s.Store.Tenants().GetCompany(ctx, companyID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("get company: %w", err)
		}
		return company.OfficeID == membership.OfficeID, nil
	}

	if p.Role == domain.RoleClient {
		ok, err := s.Store.Tenants().HasActiveCompanyMembership(ctx, p.ID, companyID)
		if err != nil {
			return false, fmt.Errorf("check company membership: %w", err)
		}
		return ok, nil
	}

	return false, nil
}
