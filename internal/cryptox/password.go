// Package cryptox implements password hashing for the credential store.
// Passwords are never stored or compared in plain text: each user gets a
// random salt and an argon2id digest, and comparisons are constant-time.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters: 1 pass, 64 MiB memory, 4 threads, 32-byte digest.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives an argon2id digest for the given password and salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword reports whether the password matches the stored digest.
// The comparison is constant-time.
func VerifyPassword(password, salt, digest []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}
