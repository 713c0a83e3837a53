package authcore

import (
	"context"
	"fmt"
	"time"

	internalaudit "github.com/vterekhov/authcore/internal/audit"
	"github.com/vterekhov/authcore/internal/flows"
	"github.com/vterekhov/authcore/password"
	"github.com/vterekhov/authcore/revocation"
	"github.com/vterekhov/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	tokens       *token.Manager
	revocations  *revocation.Store
	passwordHash *password.Argon2
	identity     IdentityStore
	deps         flows.Deps
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
}

// Close flushes and stops the audit dispatcher. The Engine must not be used
// after Close.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login verifies credentials and mints one access/refresh token pair. Any
// credential failure, including an unknown login, is reported as
// [ErrInvalidCredentials] with an identical message. A user may hold any
// number of live pairs simultaneously; issuing a new pair never revokes an
// old one.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, login, passwd string) (TokenPair, error) {
	if e == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	result, err := flows.RunLogin(ctx, login, passwd, e.deps.Login)
	if err != nil {
		switch err {
		case flows.ErrUnknownLogin, flows.ErrPasswordMismatch:
			e.metricInc(MetricLoginFailure)
			e.emitLoginEvent(ctx, internalaudit.EventLoginFailure, "", login, false, err)
			return TokenPair{}, ErrInvalidCredentials
		default:
			e.metricInc(MetricStoreUnavailable)
			return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	e.metricInc(MetricLoginSuccess)
	e.emitLoginEvent(ctx, internalaudit.EventLoginSuccess, result.UserID, login, true, nil)

	return TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

// Authenticate validates a bearer access token: signature, expiry, kind, and
// absence from the revocation denylist, in that order. Any token defect maps
// to [ErrUnauthenticated]; a revocation-store failure maps to
// [ErrStoreUnavailable] and the request fails closed.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
// Authenticate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authenticate(ctx context.Context, bearerToken string) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunAuthenticate(ctx, bearerToken, e.deps.Authenticate)
	switch result.Failure {
	case flows.AuthFailureNone:
	case flows.AuthFailureStoreUnavailable:
		e.metricInc(MetricStoreUnavailable)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Err)
	default:
		e.metricInc(MetricAuthenticateFailure)
		return nil, ErrUnauthenticated
	}

	e.metricInc(MetricAuthenticateSuccess)
	return &AuthResult{
		UserID:  result.Claims.UserID,
		Role:    result.Claims.Role,
		TokenID: result.Claims.ID,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. Presenting
// an access token here fails with [ErrInvalidTokenType]; the role embedded in
// the new access token is re-derived from the identity store, not copied from
// the refresh token's stale claim.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context, bearerToken string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, bearerToken, e.deps.Refresh)
	switch result.Failure {
	case flows.RefreshFailureNone:
	case flows.RefreshFailureWrongKind:
		e.metricInc(MetricRefreshFailure)
		return "", ErrInvalidTokenType
	case flows.RefreshFailureStoreUnavailable:
		e.metricInc(MetricStoreUnavailable)
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Err)
	default:
		e.metricInc(MetricRefreshFailure)
		return "", ErrUnauthenticated
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitEvent(ctx, internalaudit.EventTokenRefreshed, result.UserID, true, nil)

	return result.AccessToken, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
// Logging out an expired or already-revoked token succeeds without effect;
// revocation is per-token, so other sessions of the same user stay live.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, bearerToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	result := flows.RunLogout(ctx, bearerToken, e.deps.Logout)
	switch result.Failure {
	case flows.LogoutFailureNone:
	case flows.LogoutFailureStoreUnavailable:
		e.metricInc(MetricStoreUnavailable)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Err)
	default:
		return ErrUnauthenticated
	}

	e.metricInc(MetricLogout)
	if result.TokenID != "" {
		event := AuditEvent{
			Timestamp: time.Now(),
			EventType: internalaudit.EventLogout,
			UserID:    result.UserID,
			TokenID:   result.TokenID,
			Success:   true,
		}
		e.audit.Emit(ctx, event)
	}

	return nil
}

// Authorize enforces the two orthogonal access-control policies on an
// already-authenticated result: ownership (res must assert targetUserID when
// targetUserID is non-empty) and role membership (res's role must be in
// allowedRoles when allowedRoles is non-empty). Both failures are
// [ErrForbidden], never [ErrUnauthenticated]: the token is valid, just not
// authorized for this operation.
//
// Authorize may return an error when input validation, dependency calls, or security checks fail.
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authorize(res *AuthResult, targetUserID string, allowedRoles []string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if res == nil {
		return ErrUnauthenticated
	}

	if targetUserID != "" && res.UserID != targetUserID {
		e.metricInc(MetricForbidden)
		return ErrForbidden
	}

	if len(allowedRoles) > 0 {
		if res.Role == "" {
			e.metricInc(MetricForbidden)
			return ErrForbidden
		}
		allowed := false
		for _, role := range allowedRoles {
			if res.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			e.metricInc(MetricForbidden)
			return ErrForbidden
		}
	}

	return nil
}

/*
====================================
FLOW DEPENDENCY ADAPTERS
====================================
*/

func (e *Engine) flowUserByLogin(ctx context.Context, login string) (flows.UserRecord, error) {
	user, err := e.identity.GetUserByLogin(ctx, login)
	if err != nil {
		return flows.UserRecord{}, err
	}
	return toFlowUser(user), nil
}

func (e *Engine) flowUserByID(ctx context.Context, userID string) (flows.UserRecord, error) {
	user, err := e.identity.GetUserByID(ctx, userID)
	if err != nil {
		return flows.UserRecord{}, err
	}
	return toFlowUser(user), nil
}

func toFlowUser(user UserRecord) flows.UserRecord {
	return flows.UserRecord{
		UserID:       user.UserID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	}
}

// verifyPassword treats any verification error, including a malformed stored
// hash, as "no match".
func (e *Engine) verifyPassword(plaintext, storedHash string) bool {
	ok, err := e.passwordHash.Verify(plaintext, storedHash)
	if err != nil {
		return false
	}
	return ok
}

func (e *Engine) issuePair(userID, role string, now time.Time) (string, string, error) {
	access, err := e.issueAccess(userID, role, now)
	if err != nil {
		return "", "", err
	}

	refresh, err := e.tokens.Issue(token.NewClaims(userID, role, token.KindRefresh), now)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func (e *Engine) issueAccess(userID, role string, now time.Time) (string, error) {
	return e.tokens.Issue(token.NewClaims(userID, role, token.KindAccess), now)
}
