// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bioauth/internal/delivery/api/middleware"
	"bioauth/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Welcome)
	e.GET("/health", handler.HealthCheck)

	// Account routes. Tokens are extracted here and validated by the usecases,
	// which know the token type each operation requires.
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.ExtractBearer)
	{
		userGroup.GET("/details", r.accountHandler.GetUserDetails)
		userGroup.POST("/refresh_token", r.accountHandler.RefreshToken)
		userGroup.POST("/register", r.accountHandler.Register)
		userGroup.POST("/login", r.accountHandler.Login)
		userGroup.POST("/logout", r.accountHandler.Logout)
		userGroup.DELETE("/delete_account", r.accountHandler.DeleteAccount)
		userGroup.POST("/store_biometric_data", r.accountHandler.StoreBiometricData)
		userGroup.POST("/authenticate_with_biometrics", r.accountHandler.AuthenticateWithBiometrics)
		userGroup.GET("/start-backend", handler.StartBackend)
	}
}
