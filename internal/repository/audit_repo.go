package repository

import (
	"context"
	"time"

	"enscho/internal/database"
	"enscho/internal/models"
)

type AuditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	log.CreatedAt = time.Now()
	return r.db.QueryRowContext(ctx,
		`INSERT INTO audit_log (user_id, action, entity_type, entity_id, details, ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		log.UserID, log.Action, log.EntityType, log.EntityID, log.Details, log.IP, log.CreatedAt,
	).Scan(&log.ID)
}

func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return r.list(ctx,
		`SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.details, a.ip, a.created_at, COALESCE(u.email, '')
		 FROM audit_log a LEFT JOIN users u ON u.id = a.user_id
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]*models.AuditLog, error) {
	return r.list(ctx,
		`SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.details, a.ip, a.created_at, COALESCE(u.email, '')
		 FROM audit_log a LEFT JOIN users u ON u.id = a.user_id
		 WHERE a.entity_type = ? AND a.entity_id = ?
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT ?`,
		entityType, entityID, limit,
	)
}

func (r *AuditRepository) list(ctx context.Context, query string, args ...any) ([]*models.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		log := &models.AuditLog{}
		err := rows.Scan(
			&log.ID, &log.UserID, &log.Action, &log.EntityType,
			&log.EntityID, &log.Details, &log.IP, &log.CreatedAt, &log.UserEmail,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *AuditRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&count)
	return count, err
}

// DeleteOlderThan removes entries created before the cutoff.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
