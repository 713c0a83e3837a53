package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vterekhov/authcore/token"
)

func TestLogoutRevokesOnlyThatToken(t *testing.T) {
	engine, _, store := newTestEngine(t, testConfig())
	seedUser(t, engine, store, "alice", "s3cret-pass", "user")
	ctx := context.Background()

	phone, err := engine.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	laptop, err := engine.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := engine.Logout(ctx, phone.AccessToken); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if _, err := engine.Authenticate(ctx, phone.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("revoked session error = %v, want ErrUnauthenticated", err)
	}
	// Revocation is per token: the other device and even the revoked
	// session's own refresh token stay live.
	if _, err := engine.Authenticate(ctx, laptop.AccessToken); err != nil {
		t.Fatalf("other session rejected: %v", err)
	}
	if _, err := engine.Refresh(ctx, phone.RefreshToken); err != nil {
		t.Fatalf("refresh of logged-out session rejected: %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	engine, _, store := newTestEngine(t, testConfig())
	seedUser(t, engine, store, "alice", "s3cret-pass", "user")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := engine.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("first Logout() error: %v", err)
	}
	if err := engine.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("second Logout() error: %v", err)
	}
}

func TestLogoutExpiredTokenIsNoOp(t *testing.T) {
	cfg := testConfig()
	engine, mr, _ := newTestEngine(t, cfg)

	issuedAt := time.Now().Add(-cfg.JWT.AccessTTL - time.Minute)
	expired := issueTokenAt(t, cfg, "uid-alice", "user", token.KindAccess, issuedAt)

	if err := engine.Logout(context.Background(), expired); err != nil {
		t.Fatalf("Logout(expired) error = %v, want nil", err)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expired logout wrote denylist keys: %v", keys)
	}
}

func TestLogoutRejectsGarbage(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	if err := engine.Logout(context.Background(), "not-a-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Logout(garbage) error = %v, want ErrUnauthenticated", err)
	}
}

func TestLogoutStoreUnavailable(t *testing.T) {
	engine, mr, store := newTestEngine(t, testConfig())
	seedUser(t, engine, store, "alice", "s3cret-pass", "user")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	mr.Close()

	if err := engine.Logout(ctx, pair.AccessToken); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Logout() during outage error = %v, want ErrStoreUnavailable", err)
	}
}

// The denylist entry and the token expiry are independent safety nets. The
// entry's TTL equals the token's remaining lifetime, so when the store
// self-destructs the entry, the token itself has already expired and still
// cannot authenticate.
func TestLogoutDenylistTTLMatchesRemainingLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTTL = 100 * time.Second
	cfg.JWT.RefreshTTL = 200 * time.Second

	engine, mr, store := newTestEngine(t, cfg)
	seedUser(t, engine, store, "alice", "s3cret-pass", "user")
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	claims := decodeClaims(t, cfg, pair.AccessToken)

	if err := engine.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	key := "rvk:" + claims.ID
	if !mr.Exists(key) {
		t.Fatalf("denylist key %q missing", key)
	}
	ttl := mr.TTL(key)
	if ttl <= 95*time.Second || ttl > 100*time.Second {
		t.Fatalf("denylist TTL = %v, want about 100s", ttl)
	}

	mr.FastForward(101 * time.Second)
	if mr.Exists(key) {
		t.Fatal("denylist key survived past the token's lifetime")
	}
}
