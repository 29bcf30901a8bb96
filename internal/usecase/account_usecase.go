// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"bioauth/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required to log in. UsernameOrEmail matches either field.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

// DeleteAccountInput identifies the account to delete. AccessToken is only
// consulted when ownership checks are enabled.
type DeleteAccountInput struct {
	Email       string
	AccessToken string
}

// StoreBiometricInput carries standard base64 face data for the token's owner.
type StoreBiometricInput struct {
	AccessToken     string
	EncodedFaceData string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens after a successful registration or login.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the access token minted from a refresh token.
type RefreshOutput struct {
	AccessToken string
}

// UserDetails is the public view of an account.
type UserDetails struct {
	Username   string
	Email      string
	ExternalID uuid.UUID
	CreatedAt  time.Time
}

// AccountCreationDate returns CreatedAt as MM/DD/YYYY.
func (d *UserDetails) AccountCreationDate() string {
	return d.CreatedAt.Format(entity.AccountCreationDateLayout)
}

// AccountUsecase defines the interface for account and authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshOutput, error)
	Logout(ctx context.Context) error
	GetUserDetails(ctx context.Context, accessToken string) (*UserDetails, error)
	DeleteAccount(ctx context.Context, input *DeleteAccountInput) error
	StoreBiometricData(ctx context.Context, input *StoreBiometricInput) error
	AuthenticateWithBiometrics(ctx context.Context, encodedFaceData string) (*AuthOutput, error)
}
