// Package hashing abstracts the password hashing capability so the
// authenticator stays independent of the concrete algorithm.
package hashing

// PasswordHasher hashes plaintext passwords into salted digests and
// verifies candidates against stored digests.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext password. Output
	// differs between calls for the same input (fresh salt per call).
	Hash(plain string) (string, error)

	// Check reports whether plain matches the given digest.
	Check(plain, digest string) bool
}
