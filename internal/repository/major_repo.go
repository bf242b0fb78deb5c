package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

const majorColumns = `id, name, slug, code, description, image, created_at, updated_at`

type MajorRepository struct {
	db *database.DB
}

func NewMajorRepository(db *database.DB) *MajorRepository {
	return &MajorRepository{db: db}
}

func scanMajor(row interface{ Scan(...any) error }) (*models.Major, error) {
	m := &models.Major{}
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Code, &m.Description, &m.Image, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *MajorRepository) GetByID(ctx context.Context, id int64) (*models.Major, error) {
	return scanMajor(r.db.QueryRowContext(ctx, `SELECT `+majorColumns+` FROM majors WHERE id = ?`, id))
}

func (r *MajorRepository) GetBySlug(ctx context.Context, slug string) (*models.Major, error) {
	return scanMajor(r.db.QueryRowContext(ctx, `SELECT `+majorColumns+` FROM majors WHERE slug = ?`, slug))
}

func (r *MajorRepository) SlugExists(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM majors WHERE slug = ? AND id <> ?`, slug, exceptID).Scan(&n)
	return n > 0, err
}

func (r *MajorRepository) Create(ctx context.Context, m *models.Major) error {
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO majors (name, slug, code, description, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, m.Name, m.Slug, m.Code, m.Description, m.Image, now, now).Scan(&m.ID)
}

func (r *MajorRepository) Update(ctx context.Context, m *models.Major) error {
	m.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE majors SET name = ?, slug = ?, code = ?, description = ?, image = ?, updated_at = ?
		WHERE id = ?
	`, m.Name, m.Slug, m.Code, m.Description, m.Image, m.UpdatedAt, m.ID)
	return err
}

func (r *MajorRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM majors WHERE id = ?`, id)
	return err
}

func (r *MajorRepository) List(ctx context.Context) ([]*models.Major, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+majorColumns+` FROM majors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var majors []*models.Major
	for rows.Next() {
		m, err := scanMajor(rows)
		if err != nil {
			return nil, err
		}
		majors = append(majors, m)
	}
	return majors, rows.Err()
}
