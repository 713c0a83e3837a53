package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vterekhov/authcore/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// testConfig keeps argon2 at the cheapest accepted parameters so credential
// tests stay fast.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = testSecret
	cfg.JWT.Issuer = "authcore-test"
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

type mockIdentityStore struct {
	mu      sync.Mutex
	byLogin map[string]UserRecord
	byID    map[string]UserRecord
	roles   map[string]RoleRecord

	// failWith, when set, makes every method fail as if the database
	// were unreachable.
	failWith error
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{
		byLogin: map[string]UserRecord{},
		byID:    map[string]UserRecord{},
		roles:   map[string]RoleRecord{},
	}
}

func (m *mockIdentityStore) put(user UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byLogin[user.Login] = user
	m.byID[user.UserID] = user
}

func (m *mockIdentityStore) setRole(userID, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := m.byID[userID]
	user.Role = role
	m.byID[userID] = user
	m.byLogin[user.Login] = user
}

func (m *mockIdentityStore) remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[userID]; ok {
		delete(m.byLogin, user.Login)
		delete(m.byID, userID)
	}
}

func (m *mockIdentityStore) GetUserByLogin(_ context.Context, login string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	user, ok := m.byLogin[login]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

func (m *mockIdentityStore) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	user, ok := m.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

func (m *mockIdentityStore) GetRoleByName(_ context.Context, name string) (RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return RoleRecord{}, m.failWith
	}
	role, ok := m.roles[name]
	if !ok {
		return RoleRecord{}, ErrRoleNotFound
	}
	return role, nil
}

func (m *mockIdentityStore) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	if _, ok := m.byLogin[input.Login]; ok {
		return UserRecord{}, ErrUserExists
	}
	if _, ok := m.roles[input.Role]; !ok {
		return UserRecord{}, ErrRoleNotFound
	}

	user := UserRecord{
		UserID:       "uid-" + input.Login,
		Login:        input.Login,
		PasswordHash: input.PasswordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
	}
	m.byLogin[user.Login] = user
	m.byID[user.UserID] = user
	return user, nil
}

func (m *mockIdentityStore) CreateRole(_ context.Context, input RoleRecord) (RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return RoleRecord{}, m.failWith
	}
	if _, ok := m.roles[input.Name]; ok {
		return RoleRecord{}, ErrRoleExists
	}
	m.roles[input.Name] = input
	return input, nil
}

func (m *mockIdentityStore) UpdateUser(_ context.Context, userID string, input UpdateUserInput) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	user, ok := m.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}

	if input.NewLogin != "" && input.NewLogin != user.Login {
		if _, taken := m.byLogin[input.NewLogin]; taken {
			return UserRecord{}, ErrUserExists
		}
		delete(m.byLogin, user.Login)
		user.Login = input.NewLogin
	}
	if input.NewPasswordHash != "" {
		user.PasswordHash = input.NewPasswordHash
	}

	m.byLogin[user.Login] = user
	m.byID[userID] = user
	return user, nil
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *miniredis.Miniredis, *mockIdentityStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newMockIdentityStore()
	store.roles["user"] = RoleRecord{Name: "user"}
	store.roles["superuser"] = RoleRecord{Name: "superuser"}

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithIdentityStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr, store
}

// seedUser registers a user straight into the mock store with a real
// argon2id hash of passwd.
func seedUser(t *testing.T, engine *Engine, store *mockIdentityStore, login, passwd, role string) UserRecord {
	t.Helper()

	hash, err := engine.passwordHash.Hash(passwd)
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	user := UserRecord{
		UserID:       "uid-" + login,
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}
	store.put(user)
	return user
}

// issueTokenAt signs a token with the same key material the engine under
// test uses, timestamped at now. Used to fabricate expired tokens.
func issueTokenAt(t *testing.T, cfg Config, userID, role string, kind token.Kind, now time.Time) string {
	t.Helper()

	manager, err := token.NewManager(token.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		SigningMethod: token.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	signed, err := manager.Issue(token.NewClaims(userID, role, kind), now)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	return signed
}

func decodeClaims(t *testing.T, cfg Config, tokenStr string) *token.Claims {
	t.Helper()

	manager, err := token.NewManager(token.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		SigningMethod: token.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	claims, err := manager.Decode(tokenStr)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	return claims
}
