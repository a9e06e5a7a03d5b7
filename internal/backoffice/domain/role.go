package domain

// Role is the closed set of privilege levels. Precedence is explicit so
// adding a role is a one-place change.
type Role string

const (
	// RoleSystemAdmin is the system-wide administrator; supersedes all
	// tenant scoping.
	RoleSystemAdmin Role = "system_admin"

	// RoleOfficeAdmin administers one accounting office and its companies.
	RoleOfficeAdmin Role = "office_admin"

	// RoleOfficeCollaborator is regular staff of one office.
	RoleOfficeCollaborator Role = "office_collaborator"

	// RoleClient is a client-side member of zero or more companies.
	RoleClient Role = "client"
)

// rolePrecedence orders roles from most to least privileged.
var rolePrecedence = map[Role]int{
	RoleSystemAdmin:        3,
	RoleOfficeAdmin:        2,
	RoleOfficeCollaborator: 1,
	RoleClient:             0,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rolePrecedence[r]
	return ok
}

// IsOfficeStaff reports whether r is an office-scoped role.
func (r Role) IsOfficeStaff() bool {
	return r == RoleOfficeAdmin || r == RoleOfficeCollaborator
}

func (r Role) String() string { return string(r) }

// ParseRole maps a stored role name onto the enum; unknown names come back
// invalid rather than defaulting to anything.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Roles returns every known role, most privileged first.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleOfficeAdmin, RoleOfficeCollaborator, RoleClient}
}
