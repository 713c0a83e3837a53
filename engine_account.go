package authcore

import (
	"context"
	"errors"
	"fmt"

	internalaudit "github.com/vterekhov/authcore/internal/audit"
)

// CreateAccount registers a new user. The password is hashed before it
// reaches the identity store; the requested role (or
// [AccountConfig.DefaultRole] when empty) must already exist. A duplicate
// login fails with [ErrUserExists].
//
// CreateAccount may return an error when input validation, dependency calls, or security checks fail.
// CreateAccount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CreateAccount(ctx context.Context, req CreateAccountRequest) (UserRecord, error) {
	if e == nil {
		return UserRecord{}, ErrEngineNotReady
	}
	if req.Login == "" || req.Password == "" {
		return UserRecord{}, ErrInvalidCredentials
	}

	roleName := req.Role
	if roleName == "" {
		roleName = e.config.Account.DefaultRole
	}

	role, err := e.identity.GetRoleByName(ctx, roleName)
	if err != nil {
		return UserRecord{}, e.mapIdentityErr(err)
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return UserRecord{}, err
	}

	user, err := e.identity.CreateUser(ctx, CreateUserInput{
		Login:        req.Login,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role.Name,
	})
	if err != nil {
		return UserRecord{}, e.mapIdentityErr(err)
	}

	e.emitEvent(ctx, internalaudit.EventAccountCreated, user.UserID, true, nil)
	return user, nil
}

// UpdateAccount changes the login and/or password of targetUserID. The
// caller must present a live access token whose subject is targetUserID;
// updating another user's account fails with [ErrForbidden].
//
// UpdateAccount may return an error when input validation, dependency calls, or security checks fail.
// UpdateAccount does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) UpdateAccount(ctx context.Context, bearerToken, targetUserID string, req UpdateAccountRequest) (UserRecord, error) {
	if e == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	res, err := e.Authenticate(ctx, bearerToken)
	if err != nil {
		return UserRecord{}, err
	}
	if err := e.Authorize(res, targetUserID, nil); err != nil {
		return UserRecord{}, err
	}

	input := UpdateUserInput{NewLogin: req.NewLogin}
	if req.NewPassword != "" {
		hash, err := e.passwordHash.Hash(req.NewPassword)
		if err != nil {
			return UserRecord{}, err
		}
		input.NewPasswordHash = hash
	}

	user, err := e.identity.UpdateUser(ctx, targetUserID, input)
	if err != nil {
		return UserRecord{}, e.mapIdentityErr(err)
	}

	e.emitEvent(ctx, internalaudit.EventAccountUpdated, user.UserID, true, nil)
	return user, nil
}

// CreateRole registers a new role. The caller must present a live access
// token carrying [AccountConfig.SuperuserRole]; a duplicate name fails with
// [ErrRoleExists].
//
// CreateRole may return an error when input validation, dependency calls, or security checks fail.
// CreateRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CreateRole(ctx context.Context, bearerToken string, role RoleRecord) (RoleRecord, error) {
	if e == nil {
		return RoleRecord{}, ErrEngineNotReady
	}
	if role.Name == "" {
		return RoleRecord{}, ErrRoleNotFound
	}

	res, err := e.Authenticate(ctx, bearerToken)
	if err != nil {
		return RoleRecord{}, err
	}
	if err := e.Authorize(res, "", []string{e.config.Account.SuperuserRole}); err != nil {
		return RoleRecord{}, err
	}

	created, err := e.identity.CreateRole(ctx, role)
	if err != nil {
		return RoleRecord{}, e.mapIdentityErr(err)
	}

	e.emitEvent(ctx, internalaudit.EventRoleCreated, res.UserID, true, nil)
	return created, nil
}

// mapIdentityErr passes the typed identity rejections through and escalates
// everything else as a store availability failure.
func (e *Engine) mapIdentityErr(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrRoleExists):
		return err
	default:
		e.metricInc(MetricStoreUnavailable)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
