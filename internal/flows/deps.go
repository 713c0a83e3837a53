package flows

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Login        LoginDeps
	Authenticate AuthenticateDeps
	Refresh      RefreshDeps
	Logout       LogoutDeps
}

// UserRecord is the flow-local user model. The root package converts its own
// identity records into this shape.
type UserRecord struct {
	UserID       string
	Login        string
	PasswordHash string
	Role         string
}
