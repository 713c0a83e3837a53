// Package revocation implements the Redis-backed token denylist.
//
// # Design
//
// A revoked token is recorded as a single key mapping its token ID to the
// owning user ID, with a Redis-enforced expiry equal to the token's remaining
// lifetime at the moment of revocation. Entries therefore self-destruct and
// by construction never outlive the token they revoke; no manual cleanup
// exists. Lookups are existence checks only and never decode the value.
//
// # Concurrency
//
// Multiple service instances revoke and query concurrently. Each record is
// independent and write-once, so Redis's own set-with-expiry and EXISTS
// atomicity is sufficient; the package holds no locks.
//
// # What this package must NOT do
//
//   - Cache lookups in process. Correctness depends on every instance seeing
//     the shared store.
//   - Treat a Redis failure as "not revoked". Transport errors surface as
//     [ErrRedisUnavailable] and the caller fails closed.
package revocation
