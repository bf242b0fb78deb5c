package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

const galleryColumns = `g.id, g.title, g.description, g.image, g.author_id, g.created_at, COALESCE(u.name, '')`

type GalleryRepository struct {
	db *database.DB
}

func NewGalleryRepository(db *database.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func scanGalleryItem(row interface{ Scan(...any) error }) (*models.GalleryItem, error) {
	g := &models.GalleryItem{}
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Image, &g.AuthorID, &g.CreatedAt, &g.AuthorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*models.GalleryItem, error) {
	return scanGalleryItem(r.db.QueryRowContext(ctx, `
		SELECT `+galleryColumns+`
		FROM gallery_items g LEFT JOIN users u ON u.id = g.author_id
		WHERE g.id = ?
	`, id))
}

func (r *GalleryRepository) Create(ctx context.Context, g *models.GalleryItem) error {
	g.CreatedAt = time.Now()
	return r.db.QueryRowContext(ctx, `
		INSERT INTO gallery_items (title, description, image, author_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, g.Title, g.Description, g.Image, g.AuthorID, g.CreatedAt).Scan(&g.ID)
}

func (r *GalleryRepository) Update(ctx context.Context, g *models.GalleryItem) error {
	_, err := r.db.ExecContext(ctx, `UPDATE gallery_items SET title = ?, description = ? WHERE id = ?`,
		g.Title, g.Description, g.ID)
	return err
}

func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = ?`, id)
	return err
}

// List returns gallery items newest first; authorID > 0 restricts to one author.
func (r *GalleryRepository) List(ctx context.Context, authorID int64, limit, offset int) ([]*models.GalleryItem, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_items g LEFT JOIN users u ON u.id = g.author_id`
	var args []any
	if authorID > 0 {
		query += ` WHERE g.author_id = ?`
		args = append(args, authorID)
	}
	query += ` ORDER BY g.created_at DESC, g.id DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.GalleryItem
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

func (r *GalleryRepository) Count(ctx context.Context, authorID int64) (int, error) {
	query := `SELECT COUNT(*) FROM gallery_items`
	var args []any
	if authorID > 0 {
		query += ` WHERE author_id = ?`
		args = append(args, authorID)
	}
	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
