package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles the caller's own user record
type ProfileHandler struct {
	profileService *service.ProfileService
	users          UserResolver
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, users UserResolver) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		users:          users,
	}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdatePasswordRequest represents the update password request body
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// GetProfile returns the caller's profile
// GET /api/users/myself
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	auth, ok, err := resolveAuth(c, h.users, "GET_USER_ERROR")
	if !ok {
		return err
	}

	user, err := h.profileService.GetProfile(c.Request().Context(), auth)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewSoftError(c, "GET_USER_ERROR", "User not found")
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to get profile")
		return NewInternalError(c, "GET_USER_ERROR", "Failed to get user")
	}

	return NewSuccess(c, "GET_USER_SUCCESS", "User retrieved", toUserResponse(user))
}

// UpdateProfile updates the caller's first and last name
// PUT /api/users/myself
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	auth, ok, err := resolveAuth(c, h.users, "UPDATE_USER_ERROR")
	if !ok {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "UPDATE_USER_ERROR", "Invalid request body", nil)
	}

	user, err := h.profileService.UpdateProfile(c.Request().Context(), auth, req.FirstName, req.LastName)
	if err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "UPDATE_USER_ERROR", "Validation failed", validationErrorsFor(err))
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewSoftError(c, "UPDATE_USER_ERROR", "User not found")
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to update profile")
		return NewInternalError(c, "UPDATE_USER_ERROR", "Failed to update user")
	}

	return NewSuccess(c, "UPDATE_USER_SUCCESS", "User updated", toUserResponse(user))
}

// UpdatePassword replaces the caller's password
// PUT /api/users/password
func (h *ProfileHandler) UpdatePassword(c echo.Context) error {
	auth, ok, err := resolveAuth(c, h.users, "UPDATE_PASSWORD_ERROR")
	if !ok {
		return err
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "UPDATE_PASSWORD_ERROR", "Invalid request body", nil)
	}

	if err := h.profileService.UpdatePassword(c.Request().Context(), auth, req.Password); err != nil {
		if domain.IsValidationError(err) {
			return NewValidationError(c, "UPDATE_PASSWORD_ERROR", "Validation failed", validationErrorsFor(err))
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewSoftError(c, "UPDATE_PASSWORD_ERROR", "User not found")
		}
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("Failed to update password")
		return NewInternalError(c, "UPDATE_PASSWORD_ERROR", "Failed to update password")
	}

	return NewSuccess(c, "UPDATE_PASSWORD_SUCCESS", "Password updated", nil)
}
