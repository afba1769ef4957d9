package role

import (
	"time"

	"user-account-api/internal/domain/role"
)

type (
	Role struct {
		Name         string    `json:"role_name"`
		Description  string    `json:"description"`
		IsSystemRole bool      `json:"is_system_role"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}
	ResponseData struct {
		Data []Role `json:"data"`
	}
)

func ToResponseRoles(rs role.Roles) ResponseData {
	out := make([]Role, len(rs))
	for i, r := range rs {
		out[i] = Role{
			Name:         r.Name.String(),
			Description:  r.Description,
			IsSystemRole: r.IsSystemRole,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		}
	}

	return ResponseData{Data: out}
}
