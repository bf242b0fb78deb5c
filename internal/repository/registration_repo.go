package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

const registrationColumns = `r.id, r.registration_no, r.full_name, r.nisn, r.birth_place, r.birth_date, r.gender,
	r.origin_school, r.phone, r.email, r.address, r.parent_name, r.parent_phone, r.major_id, r.status, r.notes,
	r.created_at, r.updated_at, COALESCE(m.name, '')`

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row interface{ Scan(...any) error }) (*models.Registration, error) {
	x := &models.Registration{}
	err := row.Scan(&x.ID, &x.RegistrationNo, &x.FullName, &x.NISN, &x.BirthPlace, &x.BirthDate, &x.Gender,
		&x.OriginSchool, &x.Phone, &x.Email, &x.Address, &x.ParentName, &x.ParentPhone, &x.MajorID, &x.Status, &x.Notes,
		&x.CreatedAt, &x.UpdatedAt, &x.MajorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return x, err
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	return scanRegistration(r.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations r LEFT JOIN majors m ON m.id = r.major_id
		WHERE r.id = ?
	`, id))
}

func (r *RegistrationRepository) GetByNumber(ctx context.Context, number string) (*models.Registration, error) {
	return scanRegistration(r.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations r LEFT JOIN majors m ON m.id = r.major_id
		WHERE r.registration_no = ?
	`, number))
}

// CountWithPrefix counts registration numbers starting with prefix; used to
// derive the next sequence number of a year.
func (r *RegistrationRepository) CountWithPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE registration_no LIKE ?`, prefix+"%").Scan(&n)
	return n, err
}

func (r *RegistrationRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE registration_no = ?`, number).Scan(&n)
	return n > 0, err
}

func (r *RegistrationRepository) Create(ctx context.Context, x *models.Registration) error {
	now := time.Now()
	x.CreatedAt, x.UpdatedAt = now, now
	if x.Status == "" {
		x.Status = models.RegistrationPending
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (registration_no, full_name, nisn, birth_place, birth_date, gender, origin_school,
			phone, email, address, parent_name, parent_phone, major_id, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, x.RegistrationNo, x.FullName, x.NISN, x.BirthPlace, x.BirthDate, x.Gender, x.OriginSchool,
		x.Phone, x.Email, x.Address, x.ParentName, x.ParentPhone, x.MajorID, x.Status, x.Notes, now, now).Scan(&x.ID)
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id int64, status models.RegistrationStatus, notes string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns registrations newest first; an empty status means all.
func (r *RegistrationRepository) List(ctx context.Context, status models.RegistrationStatus, limit, offset int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations r LEFT JOIN majors m ON m.id = r.major_id`
	var args []any
	if status != "" {
		query += ` WHERE r.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Registration
	for rows.Next() {
		x, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, x)
	}
	return list, rows.Err()
}

func (r *RegistrationRepository) CountByStatus(ctx context.Context) (map[models.RegistrationStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM registrations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RegistrationStatus]int)
	for rows.Next() {
		var s models.RegistrationStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
