package flows

import (
	"context"
	"errors"
	"time"

	"github.com/vterekhov/authcore/token"
)

// RefreshFailure classifies refresh failures for root-level mapping.
type RefreshFailure int

const (
	RefreshFailureNone RefreshFailure = iota
	RefreshFailureUnauthenticated
	// RefreshFailureWrongKind means a structurally valid token of the wrong
	// kind was presented. Kept distinct from plain unauthenticated so access
	// tokens can never be laundered into new access tokens.
	RefreshFailureWrongKind
	RefreshFailureStoreUnavailable
)

// RefreshResult returns either a new access token or a classified failure.
type RefreshResult struct {
	Failure     RefreshFailure
	Err         error
	AccessToken string
	UserID      string
	Role        string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Decode       func(tokenStr string) (*token.Claims, error)
	IsRevoked    func(ctx context.Context, tokenID string) (bool, error)
	GetUserByID  func(ctx context.Context, userID string) (UserRecord, error)
	UserNotFound error
	IssueAccess  func(userID, role string, now time.Time) (string, error)
	Now          func() time.Time
}

// RunRefresh executes the refresh transition. The current role is re-derived
// from the stored identity rather than the refresh token's claim, so a role
// change takes effect on the next refresh.
func RunRefresh(ctx context.Context, tokenStr string, deps RefreshDeps) RefreshResult {
	claims, err := deps.Decode(tokenStr)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureUnauthenticated, Err: err}
	}

	if claims.TokenType != token.KindRefresh {
		return RefreshResult{Failure: RefreshFailureWrongKind}
	}

	revoked, err := deps.IsRevoked(ctx, claims.ID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStoreUnavailable, Err: err}
	}
	if revoked {
		return RefreshResult{Failure: RefreshFailureUnauthenticated}
	}

	user, err := deps.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if deps.UserNotFound != nil && errors.Is(err, deps.UserNotFound) {
			return RefreshResult{Failure: RefreshFailureUnauthenticated, Err: err}
		}
		return RefreshResult{Failure: RefreshFailureStoreUnavailable, Err: err}
	}

	access, err := deps.IssueAccess(user.UserID, user.Role, deps.Now())
	if err != nil {
		return RefreshResult{Failure: RefreshFailureUnauthenticated, Err: err}
	}

	return RefreshResult{
		AccessToken: access,
		UserID:      user.UserID,
		Role:        user.Role,
	}
}
