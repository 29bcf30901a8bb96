package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_WrapMessageKeepsIdentity(t *testing.T) {
	err := ErrDuplicateEmail.WrapMessage("email already exists")

	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.False(t, errors.Is(err, ErrDuplicateUsername))

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, "DUPLICATE_EMAIL", appErr.ErrorCode())
}

func TestBaseError_WithDetailsMatchesOriginal(t *testing.T) {
	detailed := ErrUserNotFound.WithDetails("id=42")

	assert.True(t, errors.Is(detailed, ErrUserNotFound))
	assert.Equal(t, "id=42", detailed.Details())
	assert.Empty(t, ErrUserNotFound.Details())
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := errors.Wrap(NewDatabaseExecuteError(cause, "failed to create user"), "register")

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode())
	assert.Equal(t, "PERSISTENCE_ERROR", appErr.ErrorCode())
	assert.Equal(t, "failed to create user", appErr.Details())
	assert.Contains(t, appErr.Error(), "connection reset")
}

func TestAuthenticationErrorsAreUnauthorized(t *testing.T) {
	for _, err := range []*BaseError{
		ErrInvalidCredentials,
		ErrUnauthorized,
		ErrTokenInvalid,
		ErrTokenExpired,
		ErrTokenWrongType,
		ErrBiometricMismatch,
	} {
		assert.Equal(t, http.StatusUnauthorized, err.HTTPCode(), err.ErrorCode())
	}
}
