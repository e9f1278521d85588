package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/practicehub/catalog-api/internal/constants"
	"github.com/practicehub/catalog-api/internal/models"
	"github.com/practicehub/catalog-api/internal/repository"
	"github.com/practicehub/catalog-api/internal/validation"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Register creates a new user after validating credentials.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	errs := validation.FieldErrors{}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		errs.Add("username", "Username is required.")
	}
	if len(input.Password) < constants.MinPasswordLength {
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters.", constants.MinPasswordLength))
	}
	if len(input.Password) > constants.MaxPasswordLength {
		errs.Add("password", fmt.Sprintf("Password must be at most %d characters.", constants.MaxPasswordLength))
	}
	if input.Password != input.PasswordConfirm {
		errs.Add("password_confirm", "Passwords do not match.")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
