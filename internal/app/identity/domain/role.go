package domain

import "strings"

// Role is a permission tier. Admin includes everything a manager may do.
type Role string

const (
	RoleNone    Role = ""
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts the roles a user record may carry.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleManager, RoleAdmin:
		return r, nil
	default:
		return RoleNone, ErrInvalidRole
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleManager:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
// RoleNone never satisfies any minimum.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

// Roles lists assignable roles in display order.
func Roles() []Role {
	return []Role{RoleManager, RoleAdmin}
}
