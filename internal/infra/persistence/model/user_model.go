package model

import (
	"time"

	"github.com/google/uuid"
)

// Unique constraint names on the users table, shared with the SQL migrations so
// that driver errors can be traced back to the offending column.
const (
	UsersUsernameKey   = "users_username_key"
	UsersEmailKey      = "users_email_key"
	UsersExternalIDKey = "users_external_id_key"
)

// UserModel mirrors the 'users' table. PostgreSQL assigns ID from a sequence.
// Username and Email widths follow entity.MaxUsernameLength and entity.MaxEmailLength.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Username      string    `gorm:"type:varchar(120);not null;uniqueIndex:users_username_key"`
	Email         string    `gorm:"type:varchar(120);not null;uniqueIndex:users_email_key"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Salt          string    `gorm:"type:varchar(255);not null"`
	ExternalID    uuid.UUID `gorm:"column:external_id;type:uuid;not null;uniqueIndex:users_external_id_key"`
	CreatedAt     time.Time `gorm:"not null"`
	BiometricData []byte    `gorm:"column:biometric_data;type:bytea"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
