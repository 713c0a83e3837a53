// Package authcore provides the token lifecycle and access-control core of an
// authentication service: JWT access and refresh token issuance, refresh-token
// exchange, revocation through a TTL-bounded Redis denylist, and role and
// ownership enforcement at request time.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The engine holds no mutable per-request state; all
// cross-request coordination happens through the shared revocation store and
// the caller-provided identity store.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// value types, and sentinel errors. Flow orchestration and audit dispatch live
// under internal/ and are never exported. HTTP routing, response
// serialization, and persistent storage belong to the caller: the engine
// receives parsed inputs and returns typed results, and reaches storage only
// through the [IdentityStore] interface.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or token encoding details in its
//     public API.
//   - Treat a revocation-store failure as "not revoked". Availability
//     failures surface as [ErrStoreUnavailable] and the request fails closed.
//   - Store or log a password in plaintext form.
package authcore
