package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

type PartnerRepository struct {
	db *database.DB
}

func NewPartnerRepository(db *database.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*models.Partner, error) {
	p := &models.Partner{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, logo, website, description, created_at, updated_at
		FROM partners WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Logo, &p.Website, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PartnerRepository) Create(ctx context.Context, p *models.Partner) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO partners (name, logo, website, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, p.Name, p.Logo, p.Website, p.Description, now, now).Scan(&p.ID)
}

func (r *PartnerRepository) Update(ctx context.Context, p *models.Partner) error {
	p.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE partners SET name = ?, logo = ?, website = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Logo, p.Website, p.Description, p.UpdatedAt, p.ID)
	return err
}

func (r *PartnerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE id = ?`, id)
	return err
}

func (r *PartnerRepository) List(ctx context.Context) ([]*models.Partner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, logo, website, description, created_at, updated_at
		FROM partners ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*models.Partner
	for rows.Next() {
		p := &models.Partner{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Logo, &p.Website, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
