package services

import (
	"context"
	"fmt"
	"strings"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

type PageInput struct {
	Title       string
	Slug        string
	Content     string
	IsPublished bool
}

type PageService struct {
	repo *repository.PageRepository
}

func NewPageService(repo *repository.PageRepository) *PageService {
	return &PageService{repo: repo}
}

func (s *PageService) Get(ctx context.Context, id int64) (*models.Page, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PageService) GetPublished(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.IsPublished {
		return nil, repository.ErrNotFound
	}
	return page, nil
}

func (s *PageService) List(ctx context.Context, publishedOnly bool) ([]*models.Page, error) {
	return s.repo.List(ctx, publishedOnly)
}

func (s *PageService) Create(ctx context.Context, in PageInput) (*models.Page, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, in.slug(), 0, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	page := &models.Page{
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug,
		Content:     in.Content,
		IsPublished: in.IsPublished,
	}
	if err := s.repo.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *PageService) Update(ctx context.Context, id int64, in PageInput) (*models.Page, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, in.slug(), id, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	page.Title = strings.TrimSpace(in.Title)
	page.Slug = slug
	page.Content = in.Content
	page.IsPublished = in.IsPublished
	if err := s.repo.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return page, nil
}

func (s *PageService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (in PageInput) validate() error {
	if err := validators.Required(in.Title, 200); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if in.Slug != "" {
		return validators.ValidateSlug(in.Slug)
	}
	return nil
}

func (in PageInput) slug() string {
	if in.Slug != "" {
		return in.Slug
	}
	return Slugify(in.Title)
}
