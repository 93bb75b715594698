package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"shop-server/internal/infrastructure/config"
	otelinfra "shop-server/internal/infrastructure/observability/otel"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func runAuthMiddleware(t *testing.T, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	cfg := &config.JWTConfig{
		Secret: "test-secret",
	}
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := AuthMiddleware(cfg, logger)
	handler := middleware(next)

	require.NoError(t, handler(c))
	return rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAuthMiddleware_MissingAuthorizationHeader(t *testing.T) {
	rec := runAuthMiddleware(t, "", okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidAuthorizationHeaderFormat(t *testing.T) {
	rec := runAuthMiddleware(t, "InvalidFormat token", okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec := runAuthMiddleware(t, "Bearer invalid-token", okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ValidAdminToken(t *testing.T) {
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"admin_id": "admin001",
		"role":     "admin",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, func(c echo.Context) error {
		// 管理者IDが設定されていることを確認
		adminID, ok := c.Get("admin_id").(string)
		assert.True(t, ok)
		assert.Equal(t, "admin001", adminID)
		return c.String(http.StatusOK, "ok")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingAdminRole(t *testing.T) {
	// roleクレームなしのトークンは403
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"admin_id": "admin001",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware_NonAdminRole(t *testing.T) {
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"admin_id": "user123",
		"role":     "user",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware_MissingAdminIDInClaims(t *testing.T) {
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"role": "admin",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidAdminIDType(t *testing.T) {
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"admin_id": 123, // 数値型
		"role":     "admin",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	tokenString := signToken(t, "wrong-secret", jwt.MapClaims{
		"admin_id": "admin001",
		"role":     "admin",
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokenString := signToken(t, "test-secret", jwt.MapClaims{
		"admin_id": "admin001",
		"role":     "admin",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})

	rec := runAuthMiddleware(t, "Bearer "+tokenString, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
