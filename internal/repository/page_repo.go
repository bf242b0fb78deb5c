package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

const pageColumns = `id, title, slug, content, is_published, created_at, updated_at`

type PageRepository struct {
	db *database.DB
}

func NewPageRepository(db *database.DB) *PageRepository {
	return &PageRepository{db: db}
}

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	return scanPage(r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return scanPage(r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug))
}

func (r *PageRepository) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE slug = ? AND id <> ?`, slug, exceptID).Scan(&n)
	return n > 0, err
}

func (r *PageRepository) Create(ctx context.Context, p *models.Page) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO pages (title, slug, content, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, p.Title, p.Slug, p.Content, p.IsPublished, now, now).Scan(&p.ID)
}

func (r *PageRepository) Update(ctx context.Context, p *models.Page) error {
	p.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE pages SET title = ?, slug = ?, content = ?, is_published = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Slug, p.Content, p.IsPublished, p.UpdatedAt, p.ID)
	return err
}

func (r *PageRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

func (r *PageRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages`
	var args []any
	if publishedOnly {
		query += ` WHERE is_published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
