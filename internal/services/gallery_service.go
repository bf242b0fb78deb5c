package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"enscho/internal/access"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

type GalleryService struct {
	repo    *repository.GalleryRepository
	uploads *UploadService
}

func NewGalleryService(repo *repository.GalleryRepository, uploads *UploadService) *GalleryService {
	return &GalleryService{repo: repo, uploads: uploads}
}

func (s *GalleryService) Get(ctx context.Context, id int64) (*models.GalleryItem, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of items; authorID 0 lists everyone's.
func (s *GalleryService) List(ctx context.Context, authorID int64, page, perPage int) ([]*models.GalleryItem, int, error) {
	if perPage <= 0 {
		perPage = 24
	}
	if page <= 0 {
		page = 1
	}
	items, err := s.repo.List(ctx, authorID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, authorID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListFor scopes the dashboard listing to the actor's own items unless admin.
func (s *GalleryService) ListFor(ctx context.Context, actor access.Actor, page, perPage int) ([]*models.GalleryItem, int, error) {
	var authorID int64
	if !actor.IsAdmin() {
		if authorID = actor.ID(); authorID == 0 {
			return nil, 0, ErrNoActor
		}
	}
	return s.List(ctx, authorID, page, perPage)
}

// Upload stores the image and records it as authored by the actor.
func (s *GalleryService) Upload(ctx context.Context, actor access.Actor, title, description string, fh *multipart.FileHeader) (*models.GalleryItem, error) {
	authorID := actor.ID()
	if authorID == 0 {
		return nil, ErrNoActor
	}
	if err := validators.Required(title, 200); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	url, err := s.uploads.SaveImage(fh)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, authorID, title, description, url)
}

func (s *GalleryService) create(ctx context.Context, authorID int64, title, description, image string) (*models.GalleryItem, error) {
	item := &models.GalleryItem{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Image:       image,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.uploads.Remove(image)
		return nil, fmt.Errorf("create gallery item: %w", err)
	}
	return item, nil
}

// Delete removes the item and its file. Non-admins may only delete their own.
func (s *GalleryService) Delete(ctx context.Context, actor access.Actor, id int64) (*models.GalleryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Can(access.OpDelete, item); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete gallery item: %w", err)
	}
	if err := s.uploads.Remove(item.Image); err != nil {
		log.Printf("Warning: failed to remove gallery file %s: %v", item.Image, err)
	}
	return item, nil
}
