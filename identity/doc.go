// Package identity is a GORM-backed implementation of the authcore
// IdentityStore: relational persistence for users, roles, and login history.
//
// The engine core never imports this package; it sees only the interface.
// Production deployments open the store over the Postgres driver, tests use
// the pure-Go sqlite driver. Login history rows are written by [HistorySink],
// an audit sink fed by the engine's dispatcher, so history stays pure
// bookkeeping with no control-flow impact on authentication.
package identity
