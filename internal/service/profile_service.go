package service

import (
	"context"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile retrieves the caller's profile
func (s *ProfileService) GetProfile(ctx context.Context, auth domain.AuthContext) (*domain.User, error) {
	return s.userRepo.GetByEmail(ctx, auth.Email)
}

// UpdateProfile updates the caller's first and last name
func (s *ProfileService) UpdateProfile(ctx context.Context, auth domain.AuthContext, firstName, lastName *string) (*domain.User, error) {
	first, err := optionalName(firstName)
	if err != nil {
		return nil, err
	}
	last, err := optionalName(lastName)
	if err != nil {
		return nil, err
	}
	return s.userRepo.UpdateName(ctx, auth.Email, first, last)
}

// UpdatePassword replaces the caller's password
func (s *ProfileService) UpdatePassword(ctx context.Context, auth domain.AuthContext, password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, auth.Email, hash)
}
