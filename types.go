package authcore

import "context"

// UserRecord is the account record exchanged with the [IdentityStore]. Role
// carries the resolved role name, not a storage-level reference.
type UserRecord struct {
	UserID       string
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

// RoleRecord is the role shape exchanged with the [IdentityStore].
type RoleRecord struct {
	Name        string
	Description string
}

// CreateUserInput is the input for [IdentityStore.CreateUser]. PasswordHash
// is already hashed; the store never sees a plaintext password.
type CreateUserInput struct {
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

// UpdateUserInput is the input for [IdentityStore.UpdateUser]. Zero-valued
// fields are left unchanged.
type UpdateUserInput struct {
	NewLogin        string
	NewPasswordHash string
}

// IdentityStore is the interface callers implement to integrate authcore
// with their user database. Implementations must return [ErrUserNotFound],
// [ErrRoleNotFound], [ErrUserExists], or [ErrRoleExists] (possibly wrapped)
// for the matching conditions; any other error is treated as a store
// availability failure. All methods must honor context cancellation.
type IdentityStore interface {
	GetUserByLogin(ctx context.Context, login string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	GetRoleByName(ctx context.Context, name string) (RoleRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	CreateRole(ctx context.Context, input RoleRecord) (RoleRecord, error)
	UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (UserRecord, error)
}

// TokenPair is returned by [Engine.Login]: one access token and one refresh
// token bound to the same subject and role, with independent token IDs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the decoded-claims summary returned by [Engine.Authenticate]
// and consumed by [Engine.Authorize].
type AuthResult struct {
	UserID  string
	Role    string
	TokenID string
}

// CreateAccountRequest is the input for [Engine.CreateAccount]. Role
// defaults to [AccountConfig.DefaultRole] when empty.
type CreateAccountRequest struct {
	Login     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// UpdateAccountRequest is the input for [Engine.UpdateAccount]. Empty fields
// are left unchanged.
type UpdateAccountRequest struct {
	NewLogin    string
	NewPassword string
}
