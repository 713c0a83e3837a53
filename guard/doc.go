// Package guard provides composable net/http middleware over the authcore
// engine: bearer-token authentication plus explicit ownership and role
// checks.
//
// Authentication and authorization are deliberately separate layers.
// [Authenticate] runs first and stores the engine's result in the request
// context; [RequireRoles] and [RequireOwner] read that result and enforce
// their single policy each. An invalid or revoked token is 401; a valid
// token that fails a policy check is 403; a revocation-store outage is 503,
// never a silent pass.
package guard
