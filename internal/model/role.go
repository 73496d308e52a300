package model

// Role is the set of identities the LIS backend recognises.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleTechnician Role = "Technician"
	RoleSupervisor Role = "Supervisor"
)

// ParseRole maps a wire value onto a known Role. Anything else yields the
// zero Role, which carries no permissions anywhere in the client.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleTechnician, RoleSupervisor:
		return Role(s)
	}
	return ""
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTechnician || r == RoleSupervisor
}

func (r Role) String() string {
	return string(r)
}
