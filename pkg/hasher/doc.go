// Package hasher provides the password hashing primitives shared by the
// authbridge user drivers.
//
// Two schemes are supported: PBKDF2 (RFC 2898, the default for file-backed
// drivers because the derived key and its salt are stored separately) and
// bcrypt for backends that prefer a self-describing hash. Salts and random
// passwords are generated from crypto/rand.
//
// Basic usage:
//
//	salt, err := hasher.Salt(32)
//	if err != nil {
//	    // Handle error
//	}
//	key := hasher.PBKDF2("s3cret", salt, 10000, 32)
//
// Derived keys are base64 encoded so they can be embedded in any serialized
// backend snapshot without escaping.
package hasher
