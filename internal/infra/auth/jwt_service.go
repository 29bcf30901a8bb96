// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"bioauth/config"
	"bioauth/internal/domain/entity"
	domainerrors "bioauth/internal/domain/errors"
	"bioauth/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret             []byte        // Process-wide HMAC key, read once from configuration.
	issuer             string        // Value of the iss claim.
	accessTTL          time.Duration // Time-to-live for access tokens.
	refreshTTL         time.Duration // Time-to-live for refresh tokens.
	refreshedAccessTTL time.Duration // Time-to-live for access tokens minted by a refresh.
	now                func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Token == nil || cfg.Token.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:             []byte(cfg.Token.Secret),
		issuer:             cfg.Token.Issuer,
		accessTTL:          cfg.Token.AccessTTL,
		refreshTTL:         cfg.Token.RefreshTTL,
		refreshedAccessTTL: cfg.Token.RefreshedAccessTTL,
		now:                time.Now,
	}, nil
}

// IssueAccess signs an access token for userID.
func (s *jwtService) IssueAccess(userID int64, ttl time.Duration) (string, error) {
	return s.generateToken(userID, entity.TokenTypeAccess, ttl)
}

// IssueRefresh signs a refresh token for userID.
func (s *jwtService) IssueRefresh(userID int64, ttl time.Duration) (string, error) {
	return s.generateToken(userID, entity.TokenTypeRefresh, ttl)
}

// GenerateTokens creates a new access token and refresh token for a given user.
func (s *jwtService) GenerateTokens(userID int64) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.IssueAccess(userID, s.accessTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.IssueRefresh(userID, s.refreshTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken verifies signature, algorithm, expiry and issuer, then checks
// that the token carries the required type.
func (s *jwtService) ValidateToken(tokenString string, required entity.TokenType) (*service.Claims, error) {
	claims := &service.Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("failed to validate token")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage(err.Error())
	}

	if !token.Valid || !claims.Type.IsValid() || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("malformed token claims")
	}

	if claims.Type != required {
		return nil, domainerrors.ErrTokenWrongType.WrapMessage("expected " + required.String() + " token")
	}

	return claims, nil
}

// GetAccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) GetAccessTokenDuration() time.Duration {
	return s.accessTTL
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// GetRefreshedAccessTokenDuration returns the lifetime of access tokens minted by a refresh.
func (s *jwtService) GetRefreshedAccessTokenDuration() time.Duration {
	return s.refreshedAccessTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID int64, tokenType entity.TokenType, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.Errorf("token ttl must be positive, got %s", ttl)
	}

	issuedAt := s.now()
	claims := &service.Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}
