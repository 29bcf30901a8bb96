package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bioauth/internal/delivery/api/response"
	deliverycontext "bioauth/internal/delivery/context"
	domainerrors "bioauth/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails any
	}{
		{
			name:        "wrapped app error",
			err:         errors.Wrap(domainerrors.ErrDuplicateEmail.WrapMessage("email already registered"), "outer"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "DUPLICATE_EMAIL",
			wantMessage: "Email is already registered",
		},
		{
			name:        "validation details are exposed",
			err:         domainerrors.ErrValidationFailed.WithDetails("email failed on required"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantMessage: "Invalid request input",
			wantDetails: "email failed on required",
		},
		{
			name:        "database error hides driver detail",
			err:         domainerrors.NewDatabaseExecuteError(errors.New("pq: connection refused"), "failed to create user"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "PERSISTENCE_ERROR",
			wantMessage: "Failed to persist account data",
		},
		{
			name: "commit failure surfaces as persistence error",
			err: errors.Wrap(
				domainerrors.NewDatabaseExecuteError(errors.New("could not serialize access"), "failed to commit transaction"),
				"failed to execute registration transaction",
			),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "PERSISTENCE_ERROR",
			wantMessage: "Failed to persist account data",
		},
		{
			name:        "echo http error",
			err:         echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "unknown error",
			err:         errors.New("nil pointer somewhere"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Internal server error, please try again later",
		},
	}

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), rec)
			deliverycontext.SetRequestID(c, "req-1")

			m.HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMessage, body.Error.Message)
			assert.Equal(t, tt.wantDetails, body.Error.Details)
			assert.Equal(t, "req-1", body.Meta.RequestID)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestAuthMiddleware_ExtractBearer(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "no header", header: ""},
		{name: "bearer", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", wantToken: "abc"},
		{name: "other scheme", header: "Basic abc", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "empty token", header: "Bearer    ", wantErr: true},
	}

	m := NewAuthMiddleware()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			called := false
			err := m.ExtractBearer(func(c echo.Context) error {
				called = true
				assert.Equal(t, tt.wantToken, deliverycontext.GetBearerToken(c))

				return nil
			})(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
				assert.False(t, called)

				return
			}
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}
