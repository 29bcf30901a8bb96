package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bioauth/config"
	apimiddleware "bioauth/internal/delivery/api/middleware"
	"bioauth/internal/delivery/api/router"
	"bioauth/internal/delivery/api/router/handler"
	"bioauth/internal/infra/auth"
	"bioauth/internal/infra/persistence/memory"
	"bioauth/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPIServer(t *testing.T) *apiServer {
	t.Helper()

	cfg := &config.Config{
		Token: &config.TokenConfig{
			Secret:             "test_secret_key_very_long_for_testing",
			Issuer:             "bioauth-test",
			AccessTTL:          time.Hour,
			RefreshTTL:         24 * time.Hour,
			RefreshedAccessTTL: time.Hour,
		},
	}
	cfg.HTTP.Port = 0
	cfg.HTTP.MaxRequestBodySize = "1K"
	cfg.HTTP.CORS.AllowOrigins = []string{"https://app.example.com"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	uc := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:    memory.NewTransactionManager(memory.NewStore()),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		Config:       cfg,
		Logger:       logger,
	})

	lc := fxtest.NewLifecycle(t)
	d, err := NewServer(ServerParams{
		Lc:     lc,
		Cfg:    cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			AccountHandler: handler.NewAccountHandler(uc),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(),
		},
	})
	require.NoError(t, err)

	return d.(*apiServer)
}

func TestServer_CORSAllowsConfiguredOrigin(t *testing.T) {
	srv := newTestAPIServer(t)

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{name: "configured origin", origin: "https://app.example.com", wantAllow: "https://app.example.com"},
		{name: "foreign origin", origin: "https://evil.example.com", wantAllow: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/user/login", http.NoBody)
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			rec := httptest.NewRecorder()

			srv.server.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantAllow, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestServer_RejectsOversizedBody(t *testing.T) {
	srv := newTestAPIServer(t)

	body := `{"faceData":"` + strings.Repeat("A", 4096) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/user/authenticate_with_biometrics", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
}

func TestServer_RecoversFromPanics(t *testing.T) {
	srv := newTestAPIServer(t)
	srv.server.GET("/panic", func(echo.Context) error {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", http.NoBody)
	rec := httptest.NewRecorder()

	srv.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}
