package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"user-account-api/internal/domain/role"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/db/postgres"
)

const (
	SelectRoles = `
		SELECT role_name, description, is_system_role, created_at, updated_at
		FROM roles
		ORDER BY role_name ASC
	`
	SelectRoleByName = `
		SELECT role_name, description, is_system_role, created_at, updated_at
		FROM roles
		WHERE role_name = $1
	`
	DeleteNonSystemRole = `DELETE FROM roles WHERE role_name = $1 AND is_system_role = FALSE`
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) role.Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) (role.Roles, error) {
	rows, err := r.db.Query(ctx, SelectRoles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	rs := make(role.Roles, 0, 2)
	for rows.Next() {
		var (
			rl   role.Role
			name string
		)
		if err = rows.Scan(&name, &rl.Description, &rl.IsSystemRole, &rl.CreatedAt, &rl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
		}
		rl.Name = user.Role(name)
		rs = append(rs, &rl)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
	}

	return rs, nil
}

func (r *Repository) Get(ctx context.Context, name user.Role) (*role.Role, error) {
	var (
		rl     role.Role
		dbName string
	)
	err := r.db.QueryRow(ctx, SelectRoleByName, string(name)).
		Scan(&dbName, &rl.Description, &rl.IsSystemRole, &rl.CreatedAt, &rl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, role.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
	}
	rl.Name = user.Role(dbName)

	return &rl, nil
}

// Delete removes only non-system roles; a miss is resolved to the precise reason.
func (r *Repository) Delete(ctx context.Context, name user.Role) error {
	tag, err := r.db.Exec(ctx, DeleteNonSystemRole, string(name))
	if err != nil {
		return fmt.Errorf("%w: %w", user.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	rl, err := r.Get(ctx, name)
	if err != nil {
		return err
	}
	if rl.IsSystemRole {
		return role.ErrSystemRole
	}

	return role.ErrNotFound
}
