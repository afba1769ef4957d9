package ports

import (
	"context"

	"user-account-api/internal/domain/role"
	"user-account-api/internal/domain/user"
)

// UserUpdate leaves nil fields untouched.
type UserUpdate struct {
	UserID   string
	Username *string
	Role     *user.Role
	IsActive *bool
}

type UserService interface {
	ListUsers(ctx context.Context, f user.ListFilter) (*user.Page, error)
	GetUserDetails(ctx context.Context, id string, includeDeleted bool) (*user.User, error)
	SearchUsers(ctx context.Context, term string) (user.Users, error)
	Stats(ctx context.Context) (user.Stats, error)
	UpdateUser(ctx context.Context, in UserUpdate) (*user.User, error)
	DeleteUser(ctx context.Context, id string) error
	RestoreUser(ctx context.Context, id string) error
	HardDeleteUser(ctx context.Context, id string) error
}

type RoleService interface {
	ListRoles(ctx context.Context) (role.Roles, error)
	DeleteRole(ctx context.Context, name user.Role) error
}
