package service

import (
	"context"
	"testing"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/stretchr/testify/require"
)

// tenantFixture seeds two offices with two companies each.
type tenantFixture struct {
	store    store.Store
	officeA  string
	officeB  string
	companyA1, companyA2 string
	companyB1, companyB2 string
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	ctx := context.Background()

	f := &tenantFixture{
		store:     newTestStore(t),
		officeA:   idx.New().String(),
		officeB:   idx.New().String(),
		companyA1: idx.New().String(),
		companyA2: idx.New().String(),
		companyB1: idx.New().String(),
		companyB2: idx.New().String(),
	}

	require.NoError(t, f.store.Tenants().CreateOffice(ctx, domain.Office{ID: f.officeA, Name: "Office A"}))
	require.NoError(t, f.store.Tenants().CreateOffice(ctx, domain.Office{ID: f.officeB, Name: "Office B"}))

	for id, office := range map[string]string{
		f.companyA1: f.officeA,
		f.companyA2: f.officeA,
		f.companyB1: f.officeB,
		f.companyB2: f.officeB,
	} {
		require.NoError(t, f.store.Tenants().CreateCompany(ctx, domain.Company{
			ID: id, OfficeID: office, Name: "Company " + id[:4],
		}))
	}

	return f
}

func (f *tenantFixture) staffUser(t *testing.T, officeID string, role domain.Role, officeRole domain.OfficeRole) domain.Principal {
	t.Helper()

	user := createUser(t, f.store, idx.New().String()+"@example.com", "password-123", role)
	require.NoError(t, f.store.Tenants().CreateOfficeMembership(context.Background(), domain.OfficeMembership{
		UserID: user.ID, OfficeID: officeID, Role: officeRole,
	}))
	return domain.Principal{ID: user.ID, Email: user.Email, Role: role}
}

func (f *tenantFixture) clientUser(t *testing.T, memberships map[string]bool) domain.Principal {
	t.Helper()

	user := createUser(t, f.store, idx.New().String()+"@example.com", "password-123", domain.RoleClient)
	for companyID, active := range memberships {
		require.NoError(t, f.store.Tenants().CreateCompanyMembership(context.Background(), domain.CompanyMembership{
			UserID: user.ID, CompanyID: companyID, Active: active,
		}))
	}
	return domain.Principal{ID: user.ID, Email: user.Email, Role: domain.RoleClient}
}

func TestAccessibleCompaniesSystemAdmin(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	admin := domain.Principal{ID: idx.New().String(), Role: domain.RoleSystemAdmin}

	set, err := svc.AccessibleCompanies(ctx, admin)
	require.NoError(t, err)
	require.True(t, set.All)
	require.True(t, set.Contains(f.companyA1))
	require.True(t, set.Contains(f.companyB2))
	require.True(t, set.Contains("not-even-a-company"))
}

func TestAccessibleCompaniesOfficeStaff(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	admin := f.staffUser(t, f.officeA, domain.RoleOfficeAdmin, domain.OfficeRoleAdmin)
	collab := f.staffUser(t, f.officeA, domain.RoleOfficeCollaborator, domain.OfficeRoleCollaborator)

	adminSet, err := svc.AccessibleCompanies(ctx, admin)
	require.NoError(t, err)
	require.False(t, adminSet.All)
	require.ElementsMatch(t, []string{f.companyA1, f.companyA2}, adminSet.IDs)

	// Collaborators resolve the same set as their office's admins.
	collabSet, err := svc.AccessibleCompanies(ctx, collab)
	require.NoError(t, err)
	require.ElementsMatch(t, adminSet.IDs, collabSet.IDs)
}

func TestAccessibleCompaniesCollaboratorIgnoresStrayClientEdges(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	collab := f.staffUser(t, f.officeA, domain.RoleOfficeCollaborator, domain.OfficeRoleCollaborator)

	// A stray company-membership edge into office B must not widen the set:
	// staff resolution goes through the office, not client edges.
	require.NoError(t, f.store.Tenants().CreateCompanyMembership(ctx, domain.CompanyMembership{
		UserID: collab.ID, CompanyID: f.companyB1, Active: true,
	}))

	set, err := svc.AccessibleCompanies(ctx, collab)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{f.companyA1, f.companyA2}, set.IDs)
}

func TestAccessibleCompaniesClientEdges(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	client := f.clientUser(t, map[string]bool{
		f.companyA1: true,
		f.companyB1: true,
		f.companyB2: false, // inactive, grants nothing
	})

	set, err := svc.AccessibleCompanies(ctx, client)
	require.NoError(t, err)
	require.False(t, set.All)
	require.ElementsMatch(t, []string{f.companyA1, f.companyB1}, set.IDs)
}

func TestAccessibleCompaniesNoMemberships(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	t.Run("client without edges", func(t *testing.T) {
		client := f.clientUser(t, nil)
		set, err := svc.AccessibleCompanies(ctx, client)
		require.NoError(t, err)
		require.False(t, set.All)
		require.Empty(t, set.IDs)
	})

	t.Run("staff role without office membership", func(t *testing.T) {
		user := createUser(t, f.store, "orphan@example.com", "password-123", domain.RoleOfficeAdmin)
		set, err := svc.AccessibleCompanies(ctx, domain.Principal{ID: user.ID, Role: user.Role})
		require.NoError(t, err)
		require.False(t, set.All)
		require.Empty(t, set.IDs)
	})
}

func TestCanAccess(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	admin := domain.Principal{ID: idx.New().String(), Role: domain.RoleSystemAdmin}
	staff := f.staffUser(t, f.officeA, domain.RoleOfficeCollaborator, domain.OfficeRoleCollaborator)
	client := f.clientUser(t, map[string]bool{f.companyA1: true, f.companyA2: false})

	cases := []struct {
		name      string
		principal domain.Principal
		companyID string
		want      bool
	}{
		{"system admin reaches anything", admin, f.companyB2, true},
		{"staff reaches own office company", staff, f.companyA1, true},
		{"staff blocked from other office", staff, f.companyB1, false},
		{"client active edge", client, f.companyA1, true},
		{"client inactive edge", client, f.companyA2, false},
		{"client no edge", client, f.companyB1, false},
		{"staff unknown company", staff, "missing", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CanAccess(ctx, tc.principal, tc.companyID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCanAccessFlipsWithMembershipActive(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	svc := &TenantService{Store: f.store}

	client := f.clientUser(t, map[string]bool{f.companyA1: true})

	ok, err := svc.CanAccess(ctx, client, f.companyA1)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.store.Tenants().SetCompanyMembershipActive(ctx, client.ID, f.companyA1, false))

	ok, err = svc.CanAccess(ctx, client, f.companyA1)
	require.NoError(t, err)
	require.False(t, ok)

	set, err := svc.AccessibleCompanies(ctx, client)
	require.NoError(t, err)
	require.Empty(t, set.IDs)
}
