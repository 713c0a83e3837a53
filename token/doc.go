// Package token signs and verifies the JWT access and refresh tokens issued
// by the authcore engine.
//
// # Design
//
// A [Manager] holds immutable signing configuration and exposes two
// operations: [Manager.Issue], which serializes a [Claims] set with
// issued-at/expires-at stamps derived from the token kind, and
// [Manager.Decode], which verifies signature and expiry before returning
// claims. Claim construction itself ([NewClaims]) is a pure function with no
// I/O beyond reading the random source for the token ID.
//
// # Architecture boundaries
//
// This package owns the wire format of tokens and nothing else. Revocation
// checks, kind enforcement on specific operations, and role re-derivation are
// the engine's responsibility.
//
// # What this package must NOT do
//
//   - Talk to Redis or any identity store.
//   - Accept a token whose signature, structure, or expiry is invalid, even
//     partially.
package token
