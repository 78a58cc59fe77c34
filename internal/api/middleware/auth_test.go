package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"credit-origination/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test-user",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	cfg := config.AuthConfig{Enabled: true, JWTSecret: secret}

	t.Run("Allows a valid bearer token", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, secret, time.Now().Add(time.Hour)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Rejects a missing Authorization header", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejects a malformed Authorization header", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejects a token signed with a different secret", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "wrong-secret", time.Now().Add(time.Hour)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejects an unsigned token", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "test-user"})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+unsigned)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejects an expired token", func(t *testing.T) {
		handler := AuthMiddleware(cfg, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, secret, time.Now().Add(-time.Hour)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Passes everything through when disabled", func(t *testing.T) {
		handler := AuthMiddleware(config.AuthConfig{Enabled: false}, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
