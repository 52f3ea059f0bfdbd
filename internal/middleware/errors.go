package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse mirrors the API envelope written by the handler package
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	codeAuthError      = "AUTH_ERROR"
	codeRateLimitError = "RATE_LIMIT_ERROR"
)

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{
		Code:    codeAuthError,
		Message: message,
	})
}

// rateLimitError creates a too many requests error response
func rateLimitError(c echo.Context, message string) error {
	return c.JSON(http.StatusTooManyRequests, errorResponse{
		Code:    codeRateLimitError,
		Message: message,
	})
}
