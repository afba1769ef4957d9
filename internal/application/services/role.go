package services

import (
	"context"

	"user-account-api/internal/domain/role"
	"user-account-api/internal/domain/user"
)

type RoleService struct {
	roleRepository role.Repository
}

func NewRoleService(roleRepository role.Repository) *RoleService {
	return &RoleService{roleRepository: roleRepository}
}

func (rs *RoleService) ListRoles(ctx context.Context) (role.Roles, error) {
	return rs.roleRepository.List(ctx)
}

func (rs *RoleService) DeleteRole(ctx context.Context, name user.Role) error {
	return rs.roleRepository.Delete(ctx, name)
}
