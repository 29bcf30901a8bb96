// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"bioauth/config"
	"bioauth/internal/domain/service"
)

// bcryptSaltLength is the length of the "$2a$NN$" header plus the 22-character encoded salt.
const bcryptSaltLength = 29

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost creates a hasher with an explicit work factor.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt draws a fresh random salt on every call; it is returned separately so
// it can be stored next to the hash.
func (h *bcryptHasher) Hash(password string) (string, string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", "", err
	}

	hash := string(bytes)

	return hash, hash[:bcryptSaltLength], nil
}

// Verify checks that the stored salt belongs to the stored hash, then compares
// the password with the hash. Both comparisons run in constant time.
func (h *bcryptHasher) Verify(password, salt, hash string) bool {
	if len(hash) < bcryptSaltLength || len(salt) != bcryptSaltLength {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(salt), []byte(hash[:bcryptSaltLength])) != 1 {
		return false
	}

	// err is nil if the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
