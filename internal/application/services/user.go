package services

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/metrics"
	"user-account-api/internal/infrastructure/mq"
)

type UserService struct {
	userRepository user.Repository
	mq             ports.EventPublisher
	mCounter       *prometheus.CounterVec
	maxPageSize    int
}

func NewUserService(
	userRepository user.Repository,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	maxPageSize int,
) *UserService {
	if maxPageSize < 1 || maxPageSize > user.MaxPageSize {
		maxPageSize = user.MaxPageSize
	}
	return &UserService{
		userRepository: userRepository,
		mq:             mq,
		mCounter:       mCounter,
		maxPageSize:    maxPageSize,
	}
}

// ListUsers clamps the page request and packages one page of results.
func (us *UserService) ListUsers(ctx context.Context, f user.ListFilter) (*user.Page, error) {
	if f.PageSize == 0 {
		f.PageSize = user.DefaultPageSize
	}
	if f.PageSize > us.maxPageSize {
		f.PageSize = us.maxPageSize
	}
	f = f.Normalized()

	items, total, err := us.userRepository.ListFiltered(ctx, f)
	if err != nil {
		return nil, err
	}

	return &user.Page{
		Items:       items,
		TotalCount:  total,
		CurrentPage: f.Page,
		PageSize:    f.PageSize,
	}, nil
}

func (us *UserService) GetUserDetails(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
	if includeDeleted {
		return us.userRepository.GetByIDIncludingDeleted(ctx, id)
	}
	return us.userRepository.GetByID(ctx, id)
}

func (us *UserService) SearchUsers(ctx context.Context, term string) (user.Users, error) {
	return us.userRepository.Search(ctx, term)
}

func (us *UserService) Stats(ctx context.Context) (user.Stats, error) {
	total, err := us.userRepository.Count(ctx)
	if err != nil {
		return user.Stats{}, err
	}
	active, err := us.userRepository.CountActive(ctx)
	if err != nil {
		return user.Stats{}, err
	}

	return user.Stats{Total: total, Active: active}, nil
}

func (us *UserService) UpdateUser(ctx context.Context, in ports.UserUpdate) (*user.User, error) {
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return nil, user.NewValidationError("Username", "is required")
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, user.NewValidationError("Role", "unknown role")
	}

	var updated *user.User
	err := us.userRepository.WithinTx(ctx, func(repo user.Repository) error {
		u, err := repo.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if in.Username != nil {
			u.Username = strings.TrimSpace(*in.Username)
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}

		updated, err = repo.Update(ctx, *u)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id string) error {
	return us.transition(ctx, id, us.userRepository.SoftDelete, mq.UserDeleted, metrics.UserDeleted)
}

func (us *UserService) RestoreUser(ctx context.Context, id string) error {
	return us.transition(ctx, id, us.userRepository.Restore, mq.UserRestored, metrics.UserRestored)
}

func (us *UserService) HardDeleteUser(ctx context.Context, id string) error {
	ok, err := us.userRepository.HardDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound
	}
	us.mCounter.WithLabelValues(metrics.UserPurged).Inc()

	return nil
}

// transition applies a soft-delete state change; a no-op surfaces as ErrNotFound
// at this boundary.
func (us *UserService) transition(
	ctx context.Context,
	id string,
	apply func(context.Context, string) (bool, error),
	event mq.EventType,
	counter string,
) error {
	ok, err := apply(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound
	}

	u, err := us.userRepository.GetByIDIncludingDeleted(ctx, id)
	if err == nil {
		us.mq.Publish(mq.NewEvent(event, u))
	}
	us.mCounter.WithLabelValues(counter).Inc()

	return nil
}
