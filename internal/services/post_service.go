package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"enscho/internal/access"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

// ErrNoActor means the session did not carry a numeric user id, so there is
// nobody to attribute new content to.
var ErrNoActor = errors.New("session does not identify a user")

type PostInput struct {
	Title       string
	Slug        string // derived from Title when empty
	Excerpt     string
	Content     string
	Image       string
	Category    string
	IsPublished bool
}

type PostService struct {
	repo *repository.PostRepository
}

func NewPostService(repo *repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublished returns a post for the public site. Drafts look like missing posts.
func (s *PostService) GetPublished(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

// List returns one page of posts and the total matching count.
func (s *PostService) List(ctx context.Context, f repository.PostFilter) ([]*models.Post, int, error) {
	posts, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListFor scopes the dashboard listing: admins see everything, other roles
// see their own posts.
func (s *PostService) ListFor(ctx context.Context, actor access.Actor, f repository.PostFilter) ([]*models.Post, int, error) {
	if !actor.IsAdmin() {
		f.AuthorID = actor.ID()
		if f.AuthorID == 0 {
			return nil, 0, ErrNoActor
		}
	}
	return s.List(ctx, f)
}

func (s *PostService) Create(ctx context.Context, actor access.Actor, in PostInput) (*models.Post, error) {
	authorID := actor.ID()
	if authorID == 0 {
		return nil, ErrNoActor
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: authorID}
	in.apply(post)

	slug, err := uniqueSlug(ctx, in.slug(), 0, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	post.Slug = slug

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor access.Actor, id int64, in PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Can(access.OpEdit, post); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	in.apply(post)
	slug, err := uniqueSlug(ctx, in.slug(), post.ID, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	post.Slug = slug

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// SetPublished flips visibility on the public site and returns the post.
func (s *PostService) SetPublished(ctx context.Context, actor access.Actor, id int64, published bool) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Can(access.OpEdit, post); err != nil {
		return nil, err
	}

	post.IsPublished = published
	if published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor access.Actor, id int64) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Can(access.OpDelete, post); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return post, nil
}

func (in PostInput) validate() error {
	if err := validators.Required(in.Title, 200); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if err := validators.Required(in.Content, 0); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if in.Slug != "" {
		if err := validators.ValidateSlug(in.Slug); err != nil {
			return err
		}
	}
	if len(in.Excerpt) > 500 {
		return fmt.Errorf("excerpt: %w", validators.ErrTooLong)
	}
	return nil
}

func (in PostInput) slug() string {
	if in.Slug != "" {
		return in.Slug
	}
	return Slugify(in.Title)
}

func (in PostInput) apply(p *models.Post) {
	p.Title = strings.TrimSpace(in.Title)
	p.Excerpt = strings.TrimSpace(in.Excerpt)
	p.Content = in.Content
	if in.Image != "" {
		p.Image = in.Image
	}
	p.Category = strings.TrimSpace(in.Category)
	if p.Category == "" {
		p.Category = "berita"
	}
	p.IsPublished = in.IsPublished
	if in.IsPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}
