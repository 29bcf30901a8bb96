package middleware

import (
	"strings"

	deliverycontext "bioauth/internal/delivery/context"
	domainerrors "bioauth/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "bearer"

// AuthMiddleware extracts bearer credentials. Token validation belongs to the
// account usecases, which know the token type each operation requires.
type AuthMiddleware struct{}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// ExtractBearer stores the token of an "Authorization: Bearer <token>" header in
// echo.Context. A missing header passes through; a malformed one is rejected.
func (m *AuthMiddleware) ExtractBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if authHeader == "" {
			return next(c)
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" {
			return domainerrors.ErrUnauthorized.WrapMessage("invalid authorization header, must be Bearer token")
		}

		deliverycontext.SetBearerToken(c, token)

		return next(c)
	}
}
