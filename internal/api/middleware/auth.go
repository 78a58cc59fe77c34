package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"credit-origination/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware guards the customer and credit routes with the bearer
// tokens issued by /auth/token. Only HMAC-signed tokens are accepted.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	authLogger := logger.With(slog.String("component", "AuthMiddleware"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validateBearerToken(r, cfg.JWTSecret); err != nil {
				authLogger.Warn("Rejected request",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validateBearerToken(r *http.Request, secret string) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return fmt.Errorf("authorization header is not a bearer token")
	}

	token, err := jwt.Parse(parts[1],
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("token invalid")
	}

	return nil
}
