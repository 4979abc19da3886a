package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// AuthMiddleware validates self-issued HS256 bearer tokens
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate returns an Echo middleware that validates bearer tokens and
// injects the authenticated user ID into the request context
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}

			userID, err := m.parseToken(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// parseToken verifies signature and expiry and extracts the subject user ID
func (m *AuthMiddleware) parseToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return uuid.Parse(claims.Subject)
}

// GetUserID extracts the authenticated user ID from the context.
// Returns uuid.Nil when the request is unauthenticated.
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// SetUserID injects a user ID into the request context (used by tests)
func SetUserID(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}
