// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password and returns the
	// salt it used alongside it.
	Hash(password string) (hash string, salt string, err error)

	// Verify reports whether password matches the stored salt and hash.
	Verify(password, salt, hash string) bool
}
