package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	authcore "github.com/vterekhov/authcore"
)

type memoryIdentityStore struct {
	users map[string]authcore.UserRecord
	byID  map[string]authcore.UserRecord
	roles map[string]authcore.RoleRecord
}

func newMemoryIdentityStore() *memoryIdentityStore {
	return &memoryIdentityStore{
		users: map[string]authcore.UserRecord{},
		byID:  map[string]authcore.UserRecord{},
		roles: map[string]authcore.RoleRecord{
			"user":      {Name: "user"},
			"superuser": {Name: "superuser"},
		},
	}
}

func (s *memoryIdentityStore) GetUserByLogin(_ context.Context, login string) (authcore.UserRecord, error) {
	user, ok := s.users[login]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryIdentityStore) GetUserByID(_ context.Context, userID string) (authcore.UserRecord, error) {
	user, ok := s.byID[userID]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryIdentityStore) GetRoleByName(_ context.Context, name string) (authcore.RoleRecord, error) {
	role, ok := s.roles[name]
	if !ok {
		return authcore.RoleRecord{}, authcore.ErrRoleNotFound
	}
	return role, nil
}

func (s *memoryIdentityStore) CreateUser(_ context.Context, input authcore.CreateUserInput) (authcore.UserRecord, error) {
	if _, ok := s.users[input.Login]; ok {
		return authcore.UserRecord{}, authcore.ErrUserExists
	}
	user := authcore.UserRecord{
		UserID:       "uid-" + input.Login,
		Login:        input.Login,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}
	s.users[user.Login] = user
	s.byID[user.UserID] = user
	return user, nil
}

func (s *memoryIdentityStore) CreateRole(_ context.Context, input authcore.RoleRecord) (authcore.RoleRecord, error) {
	if _, ok := s.roles[input.Name]; ok {
		return authcore.RoleRecord{}, authcore.ErrRoleExists
	}
	s.roles[input.Name] = input
	return input, nil
}

func (s *memoryIdentityStore) UpdateUser(_ context.Context, userID string, input authcore.UpdateUserInput) (authcore.UserRecord, error) {
	user, ok := s.byID[userID]
	if !ok {
		return authcore.UserRecord{}, authcore.ErrUserNotFound
	}
	if input.NewLogin != "" {
		delete(s.users, user.Login)
		user.Login = input.NewLogin
	}
	if input.NewPasswordHash != "" {
		user.PasswordHash = input.NewPasswordHash
	}
	s.users[user.Login] = user
	s.byID[userID] = user
	return user, nil
}

func newTestEngine(t *testing.T) *authcore.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := authcore.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password = authcore.PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}

	engine, err := authcore.New().
		WithConfig(cfg).
		WithRedis(client).
		WithIdentityStore(newMemoryIdentityStore()).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return engine
}

func loginAs(t *testing.T, engine *authcore.Engine, login, role string) string {
	t.Helper()

	_, err := engine.CreateAccount(context.Background(), authcore.CreateAccountRequest{
		Login:    login,
		Password: "s3cret-pass",
		Role:     role,
	})
	require.NoError(t, err)

	pair, err := engine.Login(context.Background(), login, "s3cret-pass")
	require.NoError(t, err)
	return pair.AccessToken
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	engine := newTestEngine(t)
	accessToken := loginAs(t, engine, "alice", "user")

	var captured *authcore.AuthResult
	handler := Authenticate(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := AuthResultFromContext(r.Context())
		require.True(t, ok)
		captured = res
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.Equal(t, "uid-alice", captured.UserID)
	require.Equal(t, "user", captured.Role)
}

func TestAuthenticateMiddlewareRejections(t *testing.T) {
	engine := newTestEngine(t)
	handler := Authenticate(engine)(okHandler())

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	engine := newTestEngine(t)
	userToken := loginAs(t, engine, "alice", "user")
	rootToken := loginAs(t, engine, "root", "superuser")

	handler := Authenticate(engine)(RequireRoles(engine, "superuser")(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+rootToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireOwner(t *testing.T) {
	engine := newTestEngine(t)
	aliceToken := loginAs(t, engine, "alice", "user")

	targetFromQuery := func(r *http.Request) string {
		return r.URL.Query().Get("user_id")
	}
	handler := Authenticate(engine)(RequireOwner(engine, targetFromQuery)(okHandler()))

	req := httptest.NewRequest(http.MethodPatch, "/users?user_id=uid-alice", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/users?user_id=uid-bob", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesWithoutAuthenticate(t *testing.T) {
	engine := newTestEngine(t)
	handler := RequireRoles(engine, "user")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
