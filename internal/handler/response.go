package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// Response is the envelope of every JSON response
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationDetails lists the offending fields of a rejected request
type ValidationDetails struct {
	Errors []ValidationError `json:"errors"`
}

// CodeAuthError is returned when the caller has no valid session
const CodeAuthError = "AUTH_ERROR"

// NewSuccess writes a 200 response carrying details
func NewSuccess(c echo.Context, code, message string, details interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// NewCreated writes a 201 response carrying details
func NewCreated(c echo.Context, code, message string, details interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// NewSoftError writes an expected failure, such as a missing record, with status 200
func NewSoftError(c echo.Context, code, message string) error {
	return c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// NewValidationError writes a 400 response for malformed input
func NewValidationError(c echo.Context, code, message string, errs []ValidationError) error {
	var details interface{}
	if len(errs) > 0 {
		details = ValidationDetails{Errors: errs}
	}
	return c.JSON(http.StatusBadRequest, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// NewUnauthorizedError writes a 401 response
func NewUnauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, Response{
		Code:    CodeAuthError,
		Message: message,
	})
}

// NewInternalError writes a 500 response. The message must never carry the
// underlying error.
func NewInternalError(c echo.Context, code, message string) error {
	return c.JSON(http.StatusInternalServerError, Response{
		Code:    code,
		Message: message,
	})
}

// validationErrorsFor maps a domain validation error to the field it concerns
func validationErrorsFor(err error) []ValidationError {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return []ValidationError{{Field: "name", Message: "Name is required"}}
	case errors.Is(err, domain.ErrNameTooLong):
		return []ValidationError{{Field: "name", Message: "Name must be 100 characters or less"}}
	case errors.Is(err, domain.ErrEmailRequired):
		return []ValidationError{{Field: "email", Message: "Email is required"}}
	case errors.Is(err, domain.ErrPasswordTooShort):
		return []ValidationError{{Field: "password", Message: "Password must be at least 8 characters"}}
	case errors.Is(err, domain.ErrInvalidAmount):
		return []ValidationError{{Field: "amount", Message: "Amount must not be negative"}}
	case errors.Is(err, domain.ErrInvalidDirection):
		return []ValidationError{{Field: "direction", Message: "Direction must be one of: IN, OUT"}}
	case errors.Is(err, domain.ErrNotesTooLong):
		return []ValidationError{{Field: "notes", Message: "Notes must be 1000 characters or less"}}
	case errors.Is(err, domain.ErrCategoryNotFound):
		return []ValidationError{{Field: "categoryId", Message: "Category not found"}}
	case errors.Is(err, domain.ErrSubcategoryNotFound):
		return []ValidationError{{Field: "subcategoryId", Message: "Subcategory not found"}}
	case errors.Is(err, domain.ErrSubcategoryMismatch):
		return []ValidationError{{Field: "subcategoryId", Message: "Subcategory does not belong to the category"}}
	case errors.Is(err, domain.ErrInvalidPagination):
		return []ValidationError{{Field: "page", Message: "Page and limit must be positive integers"}}
	case errors.Is(err, domain.ErrLimitExceeded):
		return []ValidationError{{Field: "limit", Message: "Limit must be 100 or less"}}
	case errors.Is(err, domain.ErrInvalidSortColumn):
		return []ValidationError{{Field: "sortColumn", Message: "Unsupported sort column"}}
	case errors.Is(err, domain.ErrInvalidSortDirection):
		return []ValidationError{{Field: "sortDirection", Message: "Must be one of: asc, desc"}}
	case errors.Is(err, domain.ErrInvalidDateRange):
		return []ValidationError{{Field: "from", Message: "From must not be after to"}}
	}
	return nil
}
