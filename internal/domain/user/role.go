package user

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Values match Roles.RoleName.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Roles lists every known role in seed order.
func Roles() []Role { return []Role{RoleAdmin, RoleUser} }

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// CanManageUsers gates every management operation (delete, restore, update, purge).
func (r Role) CanManageUsers() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
