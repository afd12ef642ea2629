package model

import "fmt"

// Role is the closed set of user roles. Values are integer-coded on the wire
// and in storage, matching the mobile clients already in the field.
type Role int

const (
	RoleCitizen Role = iota
	RoleWorker
	RoleSupervisor
	RoleManager
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleCitizen:    "citizen",
	RoleWorker:     "worker",
	RoleSupervisor: "supervisor",
	RoleManager:    "manager",
	RoleAdmin:      "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether r is one of the five known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Elevated reports whether r is any staff role above Citizen.
func (r Role) Elevated() bool {
	return r.Valid() && r != RoleCitizen
}

// CanInvite reports whether an actor with role r may invite a user to target.
// Admins invite Managers; Admins and Managers invite Workers and Supervisors.
func (r Role) CanInvite(target Role) bool {
	switch target {
	case RoleManager:
		return r == RoleAdmin
	case RoleWorker, RoleSupervisor:
		return r == RoleAdmin || r == RoleManager
	default:
		return false
	}
}

// ParseRole converts an integer code to a Role.
func ParseRole(code int) (Role, error) {
	r := Role(code)
	if !r.Valid() {
		return 0, fmt.Errorf("unknown role code: %d", code)
	}
	return r, nil
}
