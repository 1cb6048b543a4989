package models

import "fmt"

// UserRole: роль пользователя. Набор ролей закрыт.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleOp     UserRole = "op"
	RoleStaff  UserRole = "staff"
	RolePlayer UserRole = "player"
)

// Roles lists every known role in display order.
var Roles = []UserRole{RoleAdmin, RoleOp, RoleStaff, RolePlayer}

// Capability is an action gated by role.
type Capability int

const (
	CapManageTeams Capability = iota
	CapAssignRoles
	CapManagePlayers
	CapSelectAnyTeam
)

var roleCapabilities = map[UserRole][]Capability{
	RoleAdmin:  {CapManageTeams, CapAssignRoles, CapManagePlayers, CapSelectAnyTeam},
	RoleOp:     {CapManagePlayers},
	RoleStaff:  {CapManagePlayers},
	RolePlayer: {},
}

func ParseRole(s string) (UserRole, error) {
	role := UserRole(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func (r UserRole) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability.
func (r UserRole) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// RoleIn reports whether r is one of allowed.
func RoleIn(r UserRole, allowed []UserRole) bool {
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}
