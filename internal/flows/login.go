package flows

import (
	"context"
	"errors"
	"time"
)

// Flow-local login failures. The root package collapses both into one
// generic invalid-credentials rejection so callers cannot enumerate logins;
// the distinction survives only in audit events.
var (
	ErrUnknownLogin     = errors.New("unknown login")
	ErrPasswordMismatch = errors.New("password mismatch")
)

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	GetUserByLogin func(ctx context.Context, login string) (UserRecord, error)
	UserNotFound   error

	// VerifyPassword must treat any verification error as "no match".
	VerifyPassword func(plaintext, storedHash string) bool

	IssuePair func(userID, role string, now time.Time) (access, refresh string, err error)
	Now       func() time.Time
}

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Role         string
}

// RunLogin verifies credentials and mints one access/refresh pair bound to
// the same subject and role, each with an independent token ID.
func RunLogin(ctx context.Context, login, password string, deps LoginDeps) (LoginResult, error) {
	user, err := deps.GetUserByLogin(ctx, login)
	if err != nil {
		if deps.UserNotFound != nil && errors.Is(err, deps.UserNotFound) {
			return LoginResult{}, ErrUnknownLogin
		}
		return LoginResult{}, err
	}

	if !deps.VerifyPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrPasswordMismatch
	}

	access, refresh, err := deps.IssuePair(user.UserID, user.Role, deps.Now())
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.UserID,
		Role:         user.Role,
	}, nil
}
