package flows

import (
	"context"

	"github.com/vterekhov/authcore/token"
)

// AuthFailure classifies authenticate failures for root-level mapping.
type AuthFailure int

const (
	AuthFailureNone AuthFailure = iota
	AuthFailureUnauthenticated
	AuthFailureStoreUnavailable
)

// AuthResult returns either decoded claims or a classified failure.
type AuthResult struct {
	Failure AuthFailure
	Err     error
	Claims  *token.Claims
}

// AuthenticateDeps captures authenticate flow dependencies.
type AuthenticateDeps struct {
	Decode    func(tokenStr string) (*token.Claims, error)
	IsRevoked func(ctx context.Context, tokenID string) (bool, error)
}

// RunAuthenticate executes the authenticate transition: decode, assert the
// access kind, then consult the revocation store. A store failure is an
// availability failure, never a silent "not revoked".
func RunAuthenticate(ctx context.Context, tokenStr string, deps AuthenticateDeps) AuthResult {
	claims, err := deps.Decode(tokenStr)
	if err != nil {
		return AuthResult{Failure: AuthFailureUnauthenticated, Err: err}
	}

	if claims.TokenType != token.KindAccess {
		return AuthResult{Failure: AuthFailureUnauthenticated}
	}

	revoked, err := deps.IsRevoked(ctx, claims.ID)
	if err != nil {
		return AuthResult{Failure: AuthFailureStoreUnavailable, Err: err}
	}
	if revoked {
		return AuthResult{Failure: AuthFailureUnauthenticated}
	}

	return AuthResult{Claims: claims}
}
