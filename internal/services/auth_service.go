package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"enscho/internal/metrics"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotActive      = errors.New("user is not active")
	ErrWrongPortal        = errors.New("account does not belong to this portal")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// bcryptCost is a variable so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

type AuthService struct {
	userRepo *repository.UserRepository

	// legacyPlaintext accepts passwords stored before hashing was introduced.
	legacyPlaintext bool
}

func NewAuthService(userRepo *repository.UserRepository, legacyPlaintext bool) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		legacyPlaintext: legacyPlaintext,
	}
}

// Login checks the credentials and returns the user. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.checkPassword(ctx, user, password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserNotActive
	}

	return user, nil
}

// LoginPortal is Login restricted to accounts of the portal's role. ADMIN may
// sign in through any portal.
func (s *AuthService) LoginPortal(ctx context.Context, portal, email, password string) (*models.User, error) {
	role, ok := models.RoleForPortal(portal)
	if !ok {
		return nil, ErrWrongPortal
	}

	user, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.Role != role && !user.IsAdmin() {
		return nil, ErrWrongPortal
	}
	return user, nil
}

func (s *AuthService) checkPassword(ctx context.Context, user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == nil {
		return true
	}

	if !s.legacyPlaintext || IsPasswordHash(user.PasswordHash) || user.PasswordHash == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(password)) != 1 {
		return false
	}

	log.Printf("Warning: user %s logged in with a plaintext stored password, upgrading to bcrypt", user.Email)
	hash, err := s.HashPassword(password)
	if err != nil {
		log.Printf("Warning: failed to hash legacy password for %s: %v", user.Email, err)
		return true
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Printf("Warning: failed to store upgraded password for %s: %v", user.Email, err)
		return true
	}
	user.PasswordHash = hash
	metrics.LegacyPasswordUpgrades.Inc()
	return true
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.checkPassword(ctx, user, current) {
		return ErrWrongPassword
	}
	return s.SetPassword(ctx, userID, next)
}

// SetPassword stores a new password without checking the old one.
func (s *AuthService) SetPassword(ctx context.Context, userID int64, password string) error {
	if err := validators.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// LegacyPasswordUsers lists accounts whose stored password is not a bcrypt
// hash and therefore needs a forced reset.
func (s *AuthService) LegacyPasswordUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var legacy []*models.User
	for _, u := range users {
		if !IsPasswordHash(u.PasswordHash) {
			legacy = append(legacy, u)
		}
	}
	return legacy, nil
}

// IsPasswordHash reports whether stored looks like a bcrypt hash.
func IsPasswordHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}
