package flows

import (
	"context"
	"errors"
	"time"

	"github.com/vterekhov/authcore/token"
)

// LogoutFailure classifies logout failures for root-level mapping.
type LogoutFailure int

const (
	LogoutFailureNone LogoutFailure = iota
	LogoutFailureUnauthenticated
	LogoutFailureStoreUnavailable
)

// LogoutResult reports the revoked token's identity, if any.
type LogoutResult struct {
	Failure LogoutFailure
	Err     error
	UserID  string
	TokenID string
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Decode func(tokenStr string) (*token.Claims, error)
	// Expired is the decode sentinel for an expired token. An expired token
	// needs no revocation, so logout treats it as an idempotent success.
	Expired error
	Revoke  func(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Now     func() time.Time
}

// RunLogout executes the revoke transition: the token's ID goes into the
// denylist with TTL equal to its remaining lifetime. Logging out an expired
// or already-revoked token is a no-op, not an error.
func RunLogout(ctx context.Context, tokenStr string, deps LogoutDeps) LogoutResult {
	claims, err := deps.Decode(tokenStr)
	if err != nil {
		if deps.Expired != nil && errors.Is(err, deps.Expired) {
			return LogoutResult{}
		}
		return LogoutResult{Failure: LogoutFailureUnauthenticated, Err: err}
	}

	ttl := claims.ExpiresAt.Sub(deps.Now())
	if err := deps.Revoke(ctx, claims.ID, claims.UserID, ttl); err != nil {
		return LogoutResult{Failure: LogoutFailureStoreUnavailable, Err: err}
	}

	return LogoutResult{
		UserID:  claims.UserID,
		TokenID: claims.ID,
	}
}
