// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"bioauth/internal/delivery/api/response"
	deliverycontext "bioauth/internal/delivery/context"
	"bioauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest carries no validation tags: missing fields fail like wrong credentials.
type loginRequest struct {
	UsernameEmail string `json:"usernameEmail"`
	Password      string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type deleteAccountRequest struct {
	Email string `json:"email" validate:"required"`
}

type biometricRequest struct {
	FaceData string `json:"faceData"`
}

// GetUserDetails returns the account behind the bearer access token.
func (h *AccountHandler) GetUserDetails(c echo.Context) error {
	details, err := h.uc.GetUserDetails(c.Request().Context(), deliverycontext.GetBearerToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Details{
		Message: "success",
		User: &response.UserDetails{
			Username:            details.Username,
			Email:               details.Email,
			UserID:              details.ExternalID.String(),
			AccountCreationDate: details.AccountCreationDate(),
		},
	})
}

// RefreshToken exchanges a refresh token for a new access token. The bearer
// header takes precedence over a refresh_token field in the body.
func (h *AccountHandler) RefreshToken(c echo.Context) error {
	token := deliverycontext.GetBearerToken(c)
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "Invalid refresh token input")
		}
		token = req.RefreshToken
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Tokens{
		Message:     "Token refreshed successfully",
		AccessToken: output.AccessToken,
	})
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid registration input")
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, response.Tokens{
		Message:      "Registration successful",
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		UsernameOrEmail: req.UsernameEmail,
		Password:        req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Tokens{
		Message:      "Login successful",
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}

// Logout acknowledges a logout; clients drop their tokens.
func (h *AccountHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Message{Message: "Logout successful"})
}

// DeleteAccount hard-deletes the account registered under the given email.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid delete account input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	err := h.uc.DeleteAccount(c.Request().Context(), &usecase.DeleteAccountInput{
		Email:       req.Email,
		AccessToken: deliverycontext.GetBearerToken(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Message{Message: "Account deleted successfully"})
}

// StoreBiometricData enrolls face data for the owner of the bearer access token.
func (h *AccountHandler) StoreBiometricData(c echo.Context) error {
	var req biometricRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid biometric input")
	}

	err := h.uc.StoreBiometricData(c.Request().Context(), &usecase.StoreBiometricInput{
		AccessToken:     deliverycontext.GetBearerToken(c),
		EncodedFaceData: req.FaceData,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Message{Message: "Biometric data stored successfully"})
}

// AuthenticateWithBiometrics signs a token pair for the account enrolled with the given face data.
func (h *AccountHandler) AuthenticateWithBiometrics(c echo.Context) error {
	var req biometricRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid biometric input")
	}

	output, err := h.uc.AuthenticateWithBiometrics(c.Request().Context(), req.FaceData)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, response.Tokens{
		Message:      "Biometric authentication successful",
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}
