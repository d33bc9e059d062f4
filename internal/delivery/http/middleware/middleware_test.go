package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/domain/service"
	mockservice "crm/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError
	e.Use(NewRequestIDMiddleware(logger).Process)

	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestAuthMiddleware(t *testing.T) {
	salesID := uuid.New()
	salesClaims := &service.Claims{UserID: salesID, Role: entity.RoleFactorySales, Username: "alice"}

	setup := func(t *testing.T) (*echo.Echo, *mockservice.MockTokenService) {
		tokens := mockservice.NewMockTokenService(t)
		auth := NewAuthMiddleware(tokens)

		e := newTestEcho(t)
		secured := e.Group("", auth.Authenticate)
		secured.GET("/me", func(c echo.Context) error {
			fromEcho, ok := deliverycontext.GetPrincipal(c)
			if !ok {
				return errors.New("principal missing from echo context")
			}
			fromCtx, ok := deliverycontext.PrincipalFromContext(c.Request().Context())
			if !ok || fromCtx != fromEcho {
				return errors.New("principal missing from request context")
			}

			return response.Success(c, http.StatusOK, fromEcho, "")
		})
		secured.GET("/admin", func(c echo.Context) error {
			return response.Success(c, http.StatusOK, nil, "")
		}, auth.RequireRole(entity.RoleSuperAdmin))

		return e, tokens
	}

	t.Run("missing header", func(t *testing.T) {
		e, _ := setup(t)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		e, _ := setup(t)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic abc")
		rec := serve(e, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		e, tokens := setup(t)
		tokens.On("ValidateToken", "expired").Return(nil, errors.New("token is expired"))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer expired")
		rec := serve(e, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token exposes principal", func(t *testing.T) {
		e, tokens := setup(t)
		tokens.On("ValidateToken", "good").Return(salesClaims, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		rec := serve(e, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body struct {
			Data entity.Principal `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, salesID, body.Data.ID)
		assert.Equal(t, entity.RoleFactorySales, body.Data.Role)
	})

	t.Run("role not allowed", func(t *testing.T) {
		e, tokens := setup(t)
		tokens.On("ValidateToken", "good").Return(salesClaims, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		rec := serve(e, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decode(t, rec).Error.Code)
	})

	t.Run("unknown role in token", func(t *testing.T) {
		e, tokens := setup(t)
		tokens.On("ValidateToken", "odd").Return(&service.Claims{UserID: uuid.New(), Role: "GUEST"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer odd")
		rec := serve(e, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	e := newTestEcho(t)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, deliverycontext.GetRequestIDFromContext(c.Request().Context()))
	})

	t.Run("keeps the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "req-42")
		rec := serve(e, req)

		assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Equal(t, "req-42", rec.Body.String())
	})

	t.Run("generates one when absent", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := rec.Header().Get(deliverycontext.HeaderXRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, strings.Repeat("x", maxRequestIDLength+1))
		rec := serve(e, req)

		_, err := uuid.Parse(rec.Header().Get(deliverycontext.HeaderXRequestID))
		require.NoError(t, err)
	})
}

func TestErrorMiddleware(t *testing.T) {
	e := newTestEcho(t)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("db exploded")
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, rec.Body.String(), "db exploded")
	})

	t.Run("echo errors keep their status", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "HTTP_ERROR", decode(t, rec).Error.Code)
	})
}

func TestAuthRateLimiter(t *testing.T) {
	cfg := &config.Config{}
	cfg.HTTP.RateLimit.AuthPerSecond = 0.001
	cfg.HTTP.RateLimit.AuthBurst = 1

	e := newTestEcho(t)
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewAuthRateLimiter(cfg))

	first := serve(e, httptest.NewRequest(http.MethodPost, "/login", nil))
	second := serve(e, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, second).Error.Code)
}
