package domain

import "time"

// Office is the accounting firm. It employs staff and owns companies.
type Office struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Company is the tenant most business records are scoped to. The identity
// core only ever reads its owning office and membership edges.
type Company struct {
	ID        string
	OfficeID  string
	Name      string
	CreatedAt time.Time
}

// OfficeRole is the staff sub-role within an office.
type OfficeRole string

const (
	OfficeRoleAdmin        OfficeRole = "admin"
	OfficeRoleCollaborator OfficeRole = "collaborator"
)

// OfficeMembership links a staff user to their single office.
type OfficeMembership struct {
	UserID    string
	OfficeID  string
	Role      OfficeRole
	CreatedAt time.Time
}

// CompanyMembership links a client user to a company. Inactive edges are
// kept for audit but grant no access.
type CompanyMembership struct {
	UserID    string
	CompanyID string
	Active    bool
	CreatedAt time.Time
}

// CompanySet is the result of tenant resolution: either the wildcard
// (system-wide principals) or an explicit id set.
type CompanySet struct {
	All bool
	IDs []string
}

// Contains reports membership; the wildcard contains everything.
func (s CompanySet) Contains(companyID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.IDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// Wildcard is the "all companies" set.
func Wildcard() CompanySet { return CompanySet{All: true} }
