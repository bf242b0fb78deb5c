package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

var ErrInvalidRole = errors.New("invalid role")

type UserInput struct {
	Email    string
	Name     string
	Role     string
	Password string // optional on update
	IsActive bool
}

type UserService struct {
	repo *repository.UserRepository
	auth *AuthService
}

func NewUserService(repo *repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{repo: repo, auth: auth}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	return s.repo.CountByRole(ctx)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	role, err := in.validate(true)
	if err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		IsActive:     in.IsActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes email, name, role and active flag. A non-empty Password
// replaces the stored one.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput) (*models.User, error) {
	role, err := in.validate(false)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return nil, repository.ErrDuplicate
		}
	}

	user.Email = email
	user.Name = strings.TrimSpace(in.Name)
	user.Role = role
	user.IsActive = in.IsActive
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if in.Password != "" {
		if err := s.auth.SetPassword(ctx, id, in.Password); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.repo.Update(ctx, user)
}

// UpdateProfile is the self-service edit from a portal: name and avatar only.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, image string) (*models.User, error) {
	if err := validators.Required(name, 100); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(name)
	if image != "" {
		user.Image = image
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (in UserInput) validate(passwordRequired bool) (models.Role, error) {
	if err := validators.ValidateEmail(normalizeEmail(in.Email)); err != nil {
		return "", err
	}
	if err := validators.Required(in.Name, 100); err != nil {
		return "", fmt.Errorf("name: %w", err)
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return "", ErrInvalidRole
	}
	if passwordRequired || in.Password != "" {
		if err := validators.ValidatePassword(in.Password); err != nil {
			return "", err
		}
	}
	return role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
