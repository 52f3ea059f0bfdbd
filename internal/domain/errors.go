package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name exceeds maximum length")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrWrongPassword     = errors.New("wrong password")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordTooShort  = errors.New("password is too short")
)

// Category errors
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category is referenced by other records")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrSubcategoryInUse    = errors.New("subcategory is referenced by transactions")
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to category")
)

// Transaction errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInvalidDirection    = errors.New("direction must be IN or OUT")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
)

// Listing errors. All of them are raised before any statement reaches the store.
var (
	ErrInvalidPagination    = errors.New("page and limit must be positive")
	ErrLimitExceeded        = errors.New("limit exceeds maximum value")
	ErrInvalidSortColumn    = errors.New("invalid sort column")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

// Validation constants
const (
	MaxNameLength     = 100
	MaxNotesLength    = 1000
	MinPasswordLength = 8
)

// IsValidationError reports whether err means the caller sent malformed input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrNameRequired,
		ErrNameTooLong,
		ErrEmailRequired,
		ErrPasswordTooShort,
		ErrInvalidAmount,
		ErrInvalidDirection,
		ErrNotesTooLong,
		ErrSubcategoryMismatch,
		ErrInvalidPagination,
		ErrLimitExceeded,
		ErrInvalidSortColumn,
		ErrInvalidSortDirection,
		ErrInvalidDateRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
