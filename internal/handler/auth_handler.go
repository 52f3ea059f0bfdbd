package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/moneysuperhero/money-super-hero-backend/internal/session"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and session HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int32   `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     string  `json:"email"`
	CreatedAt string  `json:"createdAt"`
}

// Signup registers a new user
// POST /api/users/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "REGISTRATION_ERROR", "Invalid request body", nil)
	}

	user, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return NewSoftError(c, "USER_EXISTS", "A user with this email already exists")
		}
		if domain.IsValidationError(err) {
			return NewValidationError(c, "REGISTRATION_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Msg("Failed to register user")
		return NewInternalError(c, "REGISTRATION_ERROR", "Failed to register user")
	}

	return NewCreated(c, "REGISTRATION_SUCCESSFUL", "Registration successful", toUserResponse(user))
}

// Signin verifies credentials and sets the session cookie
// POST /api/users/signin
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "LOGIN_ERROR", "Invalid request body", nil)
	}

	user, err := h.authService.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewSoftError(c, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, domain.ErrWrongPassword):
			return NewSoftError(c, "WRONG_PASSWORD", "Wrong password")
		case domain.IsValidationError(err):
			return NewValidationError(c, "LOGIN_ERROR", "Validation failed", validationErrorsFor(err))
		}
		log.Error().Err(err).Msg("Failed to sign in user")
		return NewInternalError(c, "LOGIN_ERROR", "Failed to sign in")
	}

	token, err := h.sessions.Issue(user.Email)
	if err != nil {
		log.Error().Err(err).Int32("user_id", user.ID).Msg("Failed to issue session")
		return NewInternalError(c, "LOGIN_ERROR", "Failed to sign in")
	}
	c.SetCookie(h.sessions.NewCookie(token))

	return NewSuccess(c, "LOGIN_SUCCESSFUL", "Login successful", toUserResponse(user))
}

// Logout clears the session cookie
// GET /api/users/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.ClearCookie())
	return NewSuccess(c, "LOGGED_OUT", "Logged out", nil)
}

// Check reports whether the request carries a valid session
// GET /api/users/check
func (h *AuthHandler) Check(c echo.Context) error {
	if _, err := h.sessions.FromRequest(c.Request()); err != nil {
		return NewSuccess(c, "LOGGED_OUT", "Not logged in", nil)
	}
	return NewSuccess(c, "LOGGED_IN", "Logged in", nil)
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
