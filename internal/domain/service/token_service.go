package service

import (
	"time"

	"bioauth/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID int64            `json:"uid"`
	Type   entity.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// IssueAccess signs an access token for the user valid for ttl.
	IssueAccess(userID int64, ttl time.Duration) (string, error)

	// IssueRefresh signs a refresh token for the user valid for ttl.
	IssueRefresh(userID int64, ttl time.Duration) (string, error)

	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID int64) (accessToken string, refreshToken string, err error)

	// ValidateToken checks the signature, expiry and type of a token string.
	ValidateToken(tokenString string, required entity.TokenType) (*Claims, error)

	// GetAccessTokenDuration returns the configured duration for access tokens.
	GetAccessTokenDuration() time.Duration

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration

	// GetRefreshedAccessTokenDuration returns the lifetime of access tokens minted by a refresh.
	GetRefreshedAccessTokenDuration() time.Duration
}
