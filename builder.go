package authcore

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/vterekhov/authcore/internal/audit"
	"github.com/vterekhov/authcore/internal/flows"
	"github.com/vterekhov/authcore/password"
	"github.com/vterekhov/authcore/revocation"
	"github.com/vterekhov/authcore/token"
)

// Builder defines a public type used by authcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	identity  IdentityStore
	auditSink AuditSink

	built bool
}

// New creates a Builder seeded with [DefaultConfig].
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing the revocation store.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithIdentityStore sets the identity store used for user and role lookups.
//
// WithIdentityStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityStore(store IdentityStore) *Builder {
	b.identity = store
	return b
}

// WithAuditSink sets the sink receiving login-history and security events.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates configuration and dependencies and assembles the Engine.
// Construction before Build is allocation-only; Build itself performs no I/O.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.identity == nil {
		return nil, errors.New("identity store required")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		SigningMethod: token.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cfg.JWT.Secret,
		PrivateKey:    cfg.JWT.PrivateKey,
		PublicKey:     cfg.JWT.PublicKey,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:       cfg,
		tokens:       tokens,
		revocations:  revocation.NewStore(b.redis, cfg.Revocation.RedisPrefix),
		passwordHash: hasher,
		identity:     b.identity,
		metrics:      NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	e.deps = flows.Deps{
		Login: flows.LoginDeps{
			GetUserByLogin: e.flowUserByLogin,
			UserNotFound:   ErrUserNotFound,
			VerifyPassword: e.verifyPassword,
			IssuePair:      e.issuePair,
			Now:            time.Now,
		},
		Authenticate: flows.AuthenticateDeps{
			Decode:    tokens.Decode,
			IsRevoked: e.revocations.IsRevoked,
		},
		Refresh: flows.RefreshDeps{
			Decode:       tokens.Decode,
			IsRevoked:    e.revocations.IsRevoked,
			GetUserByID:  e.flowUserByID,
			UserNotFound: ErrUserNotFound,
			IssueAccess:  e.issueAccess,
			Now:          time.Now,
		},
		Logout: flows.LogoutDeps{
			Decode:  tokens.Decode,
			Expired: token.ErrExpired,
			Revoke:  e.revocations.Revoke,
			Now:     time.Now,
		},
	}

	b.built = true
	return e, nil
}
