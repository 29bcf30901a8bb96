// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountCreationDateLayout is the calendar-date layout used when exposing CreatedAt to clients.
const AccountCreationDateLayout = "01/02/2006"

// Column widths of the users table, counted in characters.
const (
	MaxUsernameLength = 120
	MaxEmailLength    = 120
)

// User is the only persisted entity: a registered account and its credentials.
type User struct {
	ID            int64     // Storage-assigned primary key, never exposed to clients.
	Username      string    // Unique, non-empty login name.
	Email         string    // Unique email address, also accepted as a login identifier.
	PasswordHash  string    // bcrypt hash of the password; the plaintext is never stored.
	Salt          string    // The per-user salt the hash was computed with.
	ExternalID    uuid.UUID // Public identifier handed to clients instead of ID.
	CreatedAt     time.Time // Timestamp of account creation.
	BiometricData []byte    // Raw decoded face data; nil until first enrolled.
}

// HasBiometricData reports whether face data has been enrolled for the user.
func (u *User) HasBiometricData() bool {
	return len(u.BiometricData) > 0
}

// AccountCreationDate returns CreatedAt formatted as a calendar date (MM/DD/YYYY).
func (u *User) AccountCreationDate() string {
	return u.CreatedAt.Format(AccountCreationDateLayout)
}
