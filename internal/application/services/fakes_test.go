package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/metrics"
	"user-account-api/internal/infrastructure/mq"
	"user-account-api/internal/infrastructure/security"
)

// memRepository is an in-memory user.Repository with the same visibility
// rules as the Postgres store. Ids match case-insensitively. WithinTx
// serializes and rolls back on error.
type memRepository struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	users map[string]*user.User
}

func newMemRepository() *memRepository {
	return &memRepository{users: make(map[string]*user.User)}
}

func key(id string) string { return strings.ToLower(id) }

func cloneUser(u *user.User) *user.User {
	c := *u
	if u.LegacyPasswordHash != nil {
		h := *u.LegacyPasswordHash
		c.LegacyPasswordHash = &h
	}
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		c.DeletedAt = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

// put stores a record verbatim, bypassing Create defaults.
func (r *memRepository) put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[key(u.UserID)] = cloneUser(&u)
}

// raw returns a record regardless of delete state.
func (r *memRepository) raw(id string) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[key(id)]; ok {
		return cloneUser(u)
	}
	return nil
}

func (r *memRepository) live(id string) (*user.User, bool) {
	u, ok := r.users[key(id)]
	if !ok || u.IsDeleted {
		return nil, false
	}
	return u, true
}

func (r *memRepository) WithinTx(ctx context.Context, fn func(user.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := make(map[string]*user.User, len(r.users))
	for k, v := range r.users {
		snapshot[k] = cloneUser(v)
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.users = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepository) Create(_ context.Context, req user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[key(req.UserID)]; ok {
		return nil, user.ErrConflict
	}
	now := time.Now().UTC()
	u := &user.User{
		UserID:             req.UserID,
		Username:           req.Username,
		PasswordHash:       req.PasswordHash,
		LegacyPasswordHash: req.LegacyPasswordHash,
		PasswordMigrated:   req.PasswordMigrated,
		Role:               req.Role,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	r.users[key(u.UserID)] = u

	return cloneUser(u), nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memRepository) GetByIDIncludingDeleted(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[key(id)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live(id)
	return ok, nil
}

func (r *memRepository) ExistsIncludingDeleted(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[key(id)]
	return ok, nil
}

func (r *memRepository) Update(_ context.Context, req user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(req.UserID)
	if !ok {
		return nil, user.ErrNotFound
	}
	u.Username = req.Username
	u.Role = req.Role
	u.IsActive = req.IsActive
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *memRepository) UpdatePassword(_ context.Context, id, passwordHash string, migrated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordMigrated = migrated
	if migrated {
		u.LegacyPasswordHash = nil
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepository) SoftDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return false, nil
	}
	now := time.Now().UTC()
	u.IsDeleted, u.DeletedAt, u.UpdatedAt = true, &now, now
	return true, nil
}

func (r *memRepository) Restore(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[key(id)]
	if !ok || !u.IsDeleted {
		return false, nil
	}
	u.IsDeleted, u.DeletedAt, u.UpdatedAt = false, nil, time.Now().UTC()
	return true, nil
}

func (r *memRepository) HardDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key(id)]; !ok {
		return false, nil
	}
	delete(r.users, key(id))
	return true, nil
}

func (r *memRepository) Authenticate(_ context.Context, id, candidateHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok || !u.IsActive || u.PasswordHash != candidateHash {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *memRepository) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return user.ErrNotFound
	}
	now := time.Now().UTC()
	u.LastLoginAt, u.UpdatedAt = &now, now
	return nil
}

func (r *memRepository) Count(ctx context.Context) (int, error) {
	_, n, err := r.ListFiltered(ctx, user.ListFilter{PageSize: 1})
	return n, err
}

func (r *memRepository) CountActive(ctx context.Context) (int, error) {
	active := true
	_, n, err := r.ListFiltered(ctx, user.ListFilter{IsActive: &active, PageSize: 1})
	return n, err
}

func (r *memRepository) Search(ctx context.Context, term string) (user.Users, error) {
	us, _, err := r.ListFiltered(ctx, user.ListFilter{SearchTerm: term, PageSize: user.MaxPageSize})
	return us, err
}

// ListFiltered sorts by user_id only.
func (r *memRepository) ListFiltered(_ context.Context, f user.ListFilter) (user.Users, int, error) {
	f = f.Normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	term := strings.ToLower(f.SearchTerm)
	matched := make(user.Users, 0, len(r.users))
	for _, u := range r.users {
		switch {
		case u.IsDeleted && !f.IncludeDeleted:
		case term != "" && !strings.Contains(strings.ToLower(u.Username), term) &&
			!strings.Contains(strings.ToLower(u.UserID), term):
		case f.IsActive != nil && u.IsActive != *f.IsActive:
		case f.Role != nil && u.Role != *f.Role:
		default:
			matched = append(matched, cloneUser(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })

	total := len(matched)
	start := min(f.Offset(), total)
	end := min(start+f.PageSize, total)

	return matched[start:end], total, nil
}

// stubRepository overrides selected store calls.
type stubRepository struct {
	*memRepository
	GetByIDFunc                 func(ctx context.Context, id string) (*user.User, error)
	GetByIDIncludingDeletedFunc func(ctx context.Context, id string) (*user.User, error)
	CreateFunc                  func(ctx context.Context, u user.User) (*user.User, error)
	UpdateLastLoginFunc         func(ctx context.Context, id string) error
}

func (s *stubRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return s.memRepository.GetByID(ctx, id)
}

func (s *stubRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*user.User, error) {
	if s.GetByIDIncludingDeletedFunc != nil {
		return s.GetByIDIncludingDeletedFunc(ctx, id)
	}
	return s.memRepository.GetByIDIncludingDeleted(ctx, id)
}

func (s *stubRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, u)
	}
	return s.memRepository.Create(ctx, u)
}

func (s *stubRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if s.UpdateLastLoginFunc != nil {
		return s.UpdateLastLoginFunc(ctx, id)
	}
	return s.memRepository.UpdateLastLogin(ctx, id)
}

func (s *stubRepository) WithinTx(ctx context.Context, fn func(user.Repository) error) error {
	return s.memRepository.WithinTx(ctx, func(user.Repository) error { return fn(s) })
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []mq.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]mq.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestHasher() *security.PasswordHasher {
	h, err := security.NewPasswordHasher(security.Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		panic(err)
	}
	return h
}

// countingHasher records how many Argon2 verifications a call performed.
type countingHasher struct {
	*security.PasswordHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(password, encoded string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, encoded)
}

func (h *countingHasher) reset() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.verifies
	h.verifies = 0
	return n
}

func newTestCounter() *prometheus.CounterVec {
	return metrics.NewCounterWith(prometheus.NewRegistry())
}

type authFixture struct {
	repo      *memRepository
	hasher    *security.PasswordHasher
	publisher *recordingPublisher
	counter   *prometheus.CounterVec
	svc       *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:      newMemRepository(),
		hasher:    newTestHasher(),
		publisher: &recordingPublisher{},
		counter:   newTestCounter(),
	}
	f.svc = NewAuthService(f.repo, f.hasher, &memRevocations{}, f.publisher, f.counter, zap.NewNop())
	return f
}
