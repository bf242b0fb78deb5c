package services

import (
	"context"
	"fmt"
	"strings"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

type MajorInput struct {
	Name        string
	Slug        string
	Code        string // short program code, e.g. TKJ
	Description string
	Image       string
}

type MajorService struct {
	repo *repository.MajorRepository
}

func NewMajorService(repo *repository.MajorRepository) *MajorService {
	return &MajorService{repo: repo}
}

func (s *MajorService) Get(ctx context.Context, id int64) (*models.Major, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MajorService) GetBySlug(ctx context.Context, slug string) (*models.Major, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *MajorService) List(ctx context.Context) ([]*models.Major, error) {
	return s.repo.List(ctx)
}

func (s *MajorService) Create(ctx context.Context, in MajorInput) (*models.Major, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, in.slug(), 0, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	major := &models.Major{Slug: slug}
	in.apply(major)
	if err := s.repo.Create(ctx, major); err != nil {
		return nil, fmt.Errorf("create major: %w", err)
	}
	return major, nil
}

func (s *MajorService) Update(ctx context.Context, id int64, in MajorInput) (*models.Major, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	major, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, in.slug(), id, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	major.Slug = slug
	in.apply(major)
	if err := s.repo.Update(ctx, major); err != nil {
		return nil, fmt.Errorf("update major: %w", err)
	}
	return major, nil
}

func (s *MajorService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (in MajorInput) validate() error {
	if err := validators.Required(in.Name, 150); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if len(strings.TrimSpace(in.Code)) > 20 {
		return fmt.Errorf("code: %w", validators.ErrTooLong)
	}
	if in.Slug != "" {
		return validators.ValidateSlug(in.Slug)
	}
	return nil
}

func (in MajorInput) slug() string {
	if in.Slug != "" {
		return in.Slug
	}
	if code := strings.TrimSpace(in.Code); code != "" {
		return Slugify(code)
	}
	return Slugify(in.Name)
}

func (in MajorInput) apply(m *models.Major) {
	m.Name = strings.TrimSpace(in.Name)
	m.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	m.Description = in.Description
	if in.Image != "" {
		m.Image = in.Image
	}
}
