package ports

import (
	"context"
	"time"

	"user-account-api/internal/domain/user"
)

type Registration struct {
	UserID          string
	Username        string
	Password        string
	ConfirmPassword string
}

type AuthService interface {
	Register(ctx context.Context, in Registration) (*user.User, error)
	// Login never tells an unknown account apart from a wrong password.
	Login(ctx context.Context, userID, password string) (user.Principal, error)
	Logout(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// ResolvePrincipal fails with ErrInvalidCredentials once the account is
	// deleted or deactivated.
	ResolvePrincipal(ctx context.Context, userID string) (user.Principal, error)
}

type AdminSeeder interface {
	EnsureAdminExists(ctx context.Context) error
}
