package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-account-api/internal/application/ports"
	domainRole "user-account-api/internal/domain/role"
	domain "user-account-api/internal/domain/user"
	jwtSvc "user-account-api/internal/infrastructure/jwt"
	"user-account-api/internal/interface/api/rest/middleware"
)

var errNotUsed = errors.New("not used")

type FakeUserService struct {
	ListUsersFunc      func(ctx context.Context, f domain.ListFilter) (*domain.Page, error)
	GetUserDetailsFunc func(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
	SearchUsersFunc    func(ctx context.Context, term string) (domain.Users, error)
	StatsFunc          func(ctx context.Context) (domain.Stats, error)
	UpdateUserFunc     func(ctx context.Context, in ports.UserUpdate) (*domain.User, error)
	DeleteUserFunc     func(ctx context.Context, id string) error
	RestoreUserFunc    func(ctx context.Context, id string) error
	HardDeleteUserFunc func(ctx context.Context, id string) error
}

func (f *FakeUserService) ListUsers(ctx context.Context, fl domain.ListFilter) (*domain.Page, error) {
	if f.ListUsersFunc == nil {
		return nil, errNotUsed
	}
	return f.ListUsersFunc(ctx, fl)
}
func (f *FakeUserService) GetUserDetails(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	if f.GetUserDetailsFunc == nil {
		return nil, errNotUsed
	}
	return f.GetUserDetailsFunc(ctx, id, includeDeleted)
}
func (f *FakeUserService) SearchUsers(ctx context.Context, term string) (domain.Users, error) {
	if f.SearchUsersFunc == nil {
		return nil, errNotUsed
	}
	return f.SearchUsersFunc(ctx, term)
}
func (f *FakeUserService) Stats(ctx context.Context) (domain.Stats, error) {
	if f.StatsFunc == nil {
		return domain.Stats{}, errNotUsed
	}
	return f.StatsFunc(ctx)
}
func (f *FakeUserService) UpdateUser(ctx context.Context, in ports.UserUpdate) (*domain.User, error) {
	if f.UpdateUserFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateUserFunc(ctx, in)
}
func (f *FakeUserService) DeleteUser(ctx context.Context, id string) error {
	if f.DeleteUserFunc == nil {
		return errNotUsed
	}
	return f.DeleteUserFunc(ctx, id)
}
func (f *FakeUserService) RestoreUser(ctx context.Context, id string) error {
	if f.RestoreUserFunc == nil {
		return errNotUsed
	}
	return f.RestoreUserFunc(ctx, id)
}
func (f *FakeUserService) HardDeleteUser(ctx context.Context, id string) error {
	if f.HardDeleteUserFunc == nil {
		return errNotUsed
	}
	return f.HardDeleteUserFunc(ctx, id)
}

type fakeAuthService struct {
	RegisterFunc func(ctx context.Context, in ports.Registration) (*domain.User, error)
	LoginFunc    func(ctx context.Context, userID, password string) (domain.Principal, error)

	ResolvePrincipalFunc func(ctx context.Context, userID string) (domain.Principal, error)

	mu      sync.Mutex
	revoked map[string]time.Duration
	gone    map[string]bool
}

func (f *fakeAuthService) Register(ctx context.Context, in ports.Registration) (*domain.User, error) {
	if f.RegisterFunc == nil {
		return nil, errNotUsed
	}
	return f.RegisterFunc(ctx, in)
}
func (f *fakeAuthService) Login(ctx context.Context, userID, password string) (domain.Principal, error) {
	if f.LoginFunc == nil {
		return domain.Principal{}, errNotUsed
	}
	return f.LoginFunc(ctx, userID, password)
}
func (f *fakeAuthService) Logout(_ context.Context, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[tokenID] = ttl
	return nil
}
func (f *fakeAuthService) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[tokenID]
	return ok, nil
}

// ResolvePrincipal knows the shared test principals until they are marked gone.
func (f *fakeAuthService) ResolvePrincipal(ctx context.Context, userID string) (domain.Principal, error) {
	if f.ResolvePrincipalFunc != nil {
		return f.ResolvePrincipalFunc(ctx, userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone[userID] {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	for _, p := range []domain.Principal{adminPrincipal, userPrincipal} {
		if p.UserID == userID {
			return p, nil
		}
	}
	return domain.Principal{}, domain.ErrInvalidCredentials
}

func (f *fakeAuthService) markGone(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone == nil {
		f.gone = make(map[string]bool)
	}
	f.gone[userID] = true
}

type fakeSeeder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSeeder) EnsureAdminExists(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

type fakeRoleService struct {
	ListRolesFunc  func(ctx context.Context) (domainRole.Roles, error)
	DeleteRoleFunc func(ctx context.Context, name domain.Role) error
}

func (f *fakeRoleService) ListRoles(ctx context.Context) (domainRole.Roles, error) {
	if f.ListRolesFunc == nil {
		return nil, errNotUsed
	}
	return f.ListRolesFunc(ctx)
}
func (f *fakeRoleService) DeleteRole(ctx context.Context, name domain.Role) error {
	if f.DeleteRoleFunc == nil {
		return errNotUsed
	}
	return f.DeleteRoleFunc(ctx, name)
}

const testSecret = "test-secret"

var (
	adminPrincipal = domain.Principal{UserID: "admin@demo.com", Username: "Administrator", Role: domain.RoleAdmin}
	userPrincipal  = domain.Principal{UserID: "alice@example.com", Username: "Alice", Role: domain.RoleUser}
)

type testServer struct {
	router *gin.Engine
	jwt    *jwtSvc.Service
	auth   *fakeAuthService
	seeder *fakeSeeder
}

func newTestServer(t *testing.T, us ports.UserService, rs ports.RoleService, as *fakeAuthService) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if as == nil {
		as = &fakeAuthService{}
	}
	srv := &testServer{
		router: gin.New(),
		jwt:    jwtSvc.New(testSecret),
		auth:   as,
		seeder: &fakeSeeder{},
	}
	logger := zap.NewNop()
	authMW := middleware.AuthMiddleware(srv.jwt, as)

	NewAuthController(srv.router, logger, as, srv.seeder, srv.jwt, time.Hour, authMW)
	if us != nil {
		NewUserController(srv.router, us, logger, authMW)
	}
	if rs != nil {
		NewRoleController(srv.router, rs, logger, authMW)
	}

	return srv
}

func (s *testServer) bearer(t *testing.T, p domain.Principal) map[string]string {
	t.Helper()
	tok, err := s.jwt.GenerateJWT(p, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m
}

func someDomainUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		UserID:           "alice@example.com",
		Username:         "Alice",
		PasswordHash:     "argon2id$v=19$secret",
		PasswordMigrated: true,
		Role:             domain.RoleUser,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
