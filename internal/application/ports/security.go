package ports

import (
	"context"
	"time"

	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/jwt"
)

type PasswordHasher interface {
	HashLegacy(password string) string
	HashModern(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type TokenIssuer interface {
	GenerateJWT(p user.Principal, expiresIn time.Duration) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

type SessionRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
