// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"bioauth/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail and ErrDuplicateUsername are returned by Create when a
// unique constraint on the corresponding column rejects the insert.
var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateExternalID = errors.New("external id already exists")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByUsernameOrEmail matches the identifier against both username and email.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.User, error)

	// FindByBiometricData returns the user whose stored biometric bytes equal data exactly.
	// When several users hold identical bytes the one with the lowest ID is returned.
	FindByBiometricData(ctx context.Context, data []byte) (*entity.User, error)

	// Create persists a new user entity to the storage and fills in its ID.
	Create(ctx context.Context, user *entity.User) error

	// UpdateBiometricData overwrites the stored biometric bytes of a user.
	UpdateBiometricData(ctx context.Context, id int64, data []byte) error

	// Delete hard-deletes a user record.
	Delete(ctx context.Context, id int64) error
}
