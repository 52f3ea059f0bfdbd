package service

import (
	"context"
	"errors"
	"strings"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored passwords
const PasswordCost = 10

// AuthService handles registration, sign-in and identity resolution
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// SignupInput holds the input for registering a user
type SignupInput struct {
	FirstName *string
	LastName  *string
	Email     string
	Password  string
}

// Signup registers a new user with a hashed password
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if len(email) > domain.MaxNameLength {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	firstName, err := optionalName(input.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := optionalName(input.LastName)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int32("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Signin verifies credentials and returns the matching user
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrWrongPassword
		}
		return nil, err
	}

	return user, nil
}

// ResolveUser maps the session email to the caller's identity
func (s *AuthService) ResolveUser(ctx context.Context, email string) (domain.AuthContext, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return domain.AuthContext{}, err
	}
	return domain.AuthContext{UserID: user.ID, Email: user.Email}, nil
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrInvalidInput
		}
		return "", err
	}
	return string(hash), nil
}

// optionalName trims a nullable name; blank values become nil
func optionalName(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	return &trimmed, nil
}
