package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/metrics"
	"user-account-api/internal/infrastructure/mq"
)

type AuthService struct {
	userRepository user.Repository
	hasher         ports.PasswordHasher
	revocations    ports.SessionRevocationStore
	mq             ports.EventPublisher
	mCounter       *prometheus.CounterVec
	log            *zap.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	revocations ports.SessionRevocationStore,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		hasher:         hasher,
		revocations:    revocations,
		mq:             mq,
		mCounter:       mCounter,
		log:            logger,
	}
}

func (as *AuthService) Register(ctx context.Context, in ports.Registration) (*user.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	// soft-deleted ids stay reserved
	exists, err := as.userRepository.ExistsIncludingDeleted(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrAlreadyExists
	}

	hash, err := as.hasher.HashModern(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := as.userRepository.Create(ctx, user.User{
		UserID:           in.UserID,
		Username:         in.Username,
		PasswordHash:     hash,
		PasswordMigrated: true,
		Role:             user.RoleUser,
	})
	if err != nil {
		if errors.Is(err, user.ErrConflict) {
			return nil, user.ErrAlreadyExists
		}
		return nil, err
	}

	as.mq.Publish(mq.NewEvent(mq.UserRegistered, u))
	as.mCounter.WithLabelValues(metrics.UserRegistered).Inc()

	return u, nil
}

func validateRegistration(in ports.Registration) error {
	verr := &user.ValidationError{}
	switch {
	case strings.TrimSpace(in.UserID) == "":
		verr.Add("UserId", "is required")
	case len(in.UserID) > user.MaxUserIDLength:
		verr.Add("UserId", fmt.Sprintf("must be at most %d characters", user.MaxUserIDLength))
	}
	if strings.TrimSpace(in.Username) == "" {
		verr.Add("Username", "is required")
	}
	if in.Password == "" {
		verr.Add("Password", "is required")
	}
	if in.Password != in.ConfirmPassword {
		verr.Add("ConfirmPassword", "passwords do not match")
	}
	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// Login verifies credentials and upgrades a legacy digest inside the same
// unit of work, so the account ends up either fully migrated or untouched.
func (as *AuthService) Login(ctx context.Context, userID, password string) (user.Principal, error) {
	var (
		principal user.Principal
		migrated  *user.User
		verified  bool
	)

	err := as.userRepository.WithinTx(ctx, func(repo user.Repository) error {
		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return user.ErrInvalidCredentials
			}
			return err
		}
		if !u.CanAuthenticate() {
			return user.ErrInvalidCredentials
		}

		if u.PasswordMigrated {
			ok, err := as.hasher.Verify(password, u.PasswordHash)
			if err != nil {
				as.log.Warn("stored password digest is unreadable", zap.String("user_id", userID), zap.Error(err))
				return user.ErrInvalidCredentials
			}
			verified = true
			if !ok {
				return user.ErrInvalidCredentials
			}
		} else {
			if u, err = repo.Authenticate(ctx, userID, as.hasher.HashLegacy(password)); err != nil {
				return err
			}
			if u == nil {
				return user.ErrInvalidCredentials
			}

			hash, err := as.hasher.HashModern(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			if err = repo.UpdatePassword(ctx, userID, hash, true); err != nil {
				return err
			}
			migrated = u
		}

		if err = repo.UpdateLastLogin(ctx, userID); err != nil {
			return err
		}
		principal = u.Principal()

		return nil
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			if !verified {
				as.verifyDummy(password)
			}
			as.mCounter.WithLabelValues(metrics.LoginFailure).Inc()
		}
		return user.Principal{}, err
	}

	if migrated != nil {
		as.mq.Publish(mq.NewEvent(mq.UserPasswordMigrated, migrated))
		as.mCounter.WithLabelValues(metrics.PasswordMigrated).Inc()
	}
	as.mCounter.WithLabelValues(metrics.LoginSuccess).Inc()

	return principal, nil
}

// verifyDummy spends one Argon2 verification so that failures without a
// stored modern digest take as long as a wrong password on a migrated account.
func (as *AuthService) verifyDummy(password string) {
	as.dummyOnce.Do(func() {
		digest, err := as.hasher.HashModern("dummy-password-for-timing")
		if err != nil {
			as.log.Warn("cannot prepare dummy digest", zap.Error(err))
			return
		}
		as.dummyDigest = digest
	})
	if as.dummyDigest == "" {
		return
	}
	_, _ = as.hasher.Verify(password, as.dummyDigest)
}

// ResolvePrincipal reloads the account behind an issued token, so deletion,
// deactivation and role changes apply to sessions that already exist.
func (as *AuthService) ResolvePrincipal(ctx context.Context, userID string) (user.Principal, error) {
	u, err := as.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Principal{}, user.ErrInvalidCredentials
		}
		return user.Principal{}, err
	}
	if !u.CanAuthenticate() {
		return user.Principal{}, user.ErrInvalidCredentials
	}

	return u.Principal(), nil
}

func (as *AuthService) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	return as.revocations.Revoke(ctx, tokenID, ttl)
}

func (as *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return as.revocations.IsRevoked(ctx, tokenID)
}
