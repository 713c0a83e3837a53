// Package password provides argon2id hashing and verification for stored
// credentials.
//
// Hashes use the PHC string format ($argon2id$v=..$m=..,t=..,p=..$salt$hash)
// so parameters travel with the hash and verification never depends on the
// current configuration. Comparison is constant-time.
//
// Verification of a malformed or foreign-format hash returns an error; the
// engine treats any such error as "no match" and never surfaces hash details
// to callers.
package password
