package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// EmailKey is the context key for the email carried by the session
	EmailKey contextKey = "session_email"
)

// SessionReader extracts the authenticated email from a request
type SessionReader interface {
	FromRequest(r *http.Request) (string, error)
}

// AuthMiddleware provides session cookie validation middleware
type AuthMiddleware struct {
	sessions SessionReader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionReader) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate returns an Echo middleware that rejects requests without a
// valid session cookie
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := m.sessions.FromRequest(c.Request())
			if err != nil {
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("Session validation failed")
				return unauthorizedError(c, "Authentication required")
			}

			ctx := context.WithValue(c.Request().Context(), EmailKey, email)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetEmail extracts the session email from the context
func GetEmail(c echo.Context) string {
	if email, ok := c.Request().Context().Value(EmailKey).(string); ok {
		return email
	}
	return ""
}
