package handler

import (
	"net/http"

	"bioauth/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

const welcomeBanner = "Welcome to Biometric App Server"

// Welcome answers the root path with a plain-text banner.
func Welcome(c echo.Context) error {
	return c.String(http.StatusOK, welcomeBanner)
}

// HealthCheck reports that the process is serving requests.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// StartBackend lets clients wake an idle deployment before the first real call.
func StartBackend(c echo.Context) error {
	return response.Success(c, http.StatusOK, response.Message{Message: "Backend started successfully"})
}
