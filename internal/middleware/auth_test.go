package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubSessionReader struct {
	email string
	err   error
}

func (s *stubSessionReader) FromRequest(r *http.Request) (string, error) {
	return s.email, s.err
}

func TestGetEmail(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns email when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), EmailKey, "hero@example.com")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "hero@example.com",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			if result := GetEmail(c); result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestAuthenticate_ValidSession(t *testing.T) {
	e := echo.New()
	m := NewAuthMiddleware(&stubSessionReader{email: "hero@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := func(c echo.Context) error {
		seen = GetEmail(c)
		return c.String(http.StatusOK, "OK")
	}

	err := m.Authenticate()(handler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hero@example.com", seen)
}

func TestAuthenticate_MissingSession(t *testing.T) {
	e := echo.New()
	m := NewAuthMiddleware(&stubSessionReader{err: errors.New("no session")})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := func(c echo.Context) error {
		called = true
		return nil
	}

	err := m.Authenticate()(handler)(c)
	assert.NoError(t, err)
	assert.False(t, called, "handler must not run without a session")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"AUTH_ERROR"`)
}
