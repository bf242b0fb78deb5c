package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

const postColumns = `p.id, p.title, p.slug, p.excerpt, p.content, p.image, p.category, p.is_published,
	p.author_id, p.published_at, p.created_at, p.updated_at, COALESCE(u.name, '')`

// PostFilter narrows post listings. Zero values mean "no filter".
type PostFilter struct {
	PublishedOnly bool
	AuthorID      int64
	Category      string
	Search        string
	Limit         int
	Offset        int
}

type PostRepository struct {
	db *database.DB
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Image, &p.Category, &p.IsPublished,
		&p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &p.AuthorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = ?
	`, id))
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p LEFT JOIN users u ON u.id = p.author_id
		WHERE p.slug = ?
	`, slug))
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ? AND id <> ?`, slug, exceptID).Scan(&n)
	return n > 0, err
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, image, category, is_published, author_id, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.Image, p.Category, p.IsPublished, p.AuthorID, p.PublishedAt, now, now).Scan(&p.ID)
}

func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, image = ?, category = ?,
			is_published = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.Image, p.Category, p.IsPublished, p.PublishedAt, p.UpdatedAt, p.ID)
	return err
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	where, args := f.where()
	query := `
		SELECT ` + postColumns + `
		FROM posts p LEFT JOIN users u ON u.id = p.author_id` + where + `
		ORDER BY COALESCE(p.published_at, p.created_at) DESC, p.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Count(ctx context.Context, f PostFilter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.PublishedOnly {
		conds = append(conds, "p.is_published = ?")
		args = append(args, true)
	}
	if f.AuthorID > 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.Category != "" {
		conds = append(conds, "p.category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		conds = append(conds, "LOWER(p.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
