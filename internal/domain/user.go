package domain

import (
	"context"
	"time"
)

// User represents a registered user
type User struct {
	ID           int32     `json:"id"`
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthContext is the identity of the caller, resolved once per request from the
// session and passed explicitly to every scoped operation.
type AuthContext struct {
	UserID int32
	Email  string
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateName(ctx context.Context, email string, firstName, lastName *string) (*User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
