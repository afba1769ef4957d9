package role

import (
	"context"
	"errors"
	"time"

	"user-account-api/internal/domain/user"
)

var (
	ErrNotFound   = errors.New("role not found")
	ErrSystemRole = errors.New("system role cannot be deleted")
)

type (
	Role struct {
		Name         user.Role
		Description  string
		IsSystemRole bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
	Roles []*Role
)

type Repository interface {
	List(ctx context.Context) (Roles, error)
	Get(ctx context.Context, name user.Role) (*Role, error)
	// Delete fails with ErrSystemRole for seeded roles.
	Delete(ctx context.Context, name user.Role) error
}
