package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/metrics"
)

type AdminAccount struct {
	UserID   string
	Username string
	Password string
}

// AdminSeeder relies on the store's unique id index, not on process state,
// so concurrent callers on any number of instances create one row.
type AdminSeeder struct {
	userRepository user.Repository
	hasher         ports.PasswordHasher
	admin          AdminAccount
	mCounter       *prometheus.CounterVec
	log            *zap.Logger
	deletedOnce    sync.Once
}

func NewAdminSeeder(
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	admin AdminAccount,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) *AdminSeeder {
	return &AdminSeeder{
		userRepository: userRepository,
		hasher:         hasher,
		admin:          admin,
		mCounter:       mCounter,
		log:            logger,
	}
}

// EnsureAdminExists creates the admin account when no row holds its id.
// A soft-deleted admin is left alone until an operator restores it.
func (s *AdminSeeder) EnsureAdminExists(ctx context.Context) error {
	existing, err := s.userRepository.GetByIDIncludingDeleted(ctx, s.admin.UserID)
	switch {
	case err == nil:
		if existing.IsDeleted {
			s.deletedOnce.Do(func() {
				s.log.Warn("admin account is soft-deleted, not reseeding", zap.String("user_id", existing.UserID))
			})
		}
		return nil
	case !errors.Is(err, user.ErrNotFound):
		return err
	}

	hash, err := s.hasher.HashModern(s.admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.userRepository.Create(ctx, user.User{
		UserID:           s.admin.UserID,
		Username:         s.admin.Username,
		PasswordHash:     hash,
		PasswordMigrated: true,
		Role:             user.RoleAdmin,
	})
	switch {
	case err == nil:
		s.mCounter.WithLabelValues(metrics.AdminSeeded).Inc()
		s.log.Info("admin account seeded", zap.String("user_id", s.admin.UserID))
		return nil
	case errors.Is(err, user.ErrConflict):
		// another caller won the race
		return nil
	default:
		return err
	}
}
