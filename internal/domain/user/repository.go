package user

import (
	"context"
)

// Repository is the user store. Reads skip soft-deleted rows unless the method
// name says IncludingDeleted.
type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDIncludingDeleted(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsIncludingDeleted(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, u User) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, migrated bool) error
	SoftDelete(ctx context.Context, id string) (bool, error)
	Restore(ctx context.Context, id string) (bool, error)
	HardDelete(ctx context.Context, id string) (bool, error)
	// Authenticate returns nil, nil when nothing matches.
	Authenticate(ctx context.Context, id, candidateHash string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	Search(ctx context.Context, term string) (Users, error)
	ListFiltered(ctx context.Context, f ListFilter) (Users, int, error)
	// WithinTx runs fn against a store bound to a single transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
