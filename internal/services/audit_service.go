package services

import (
	"context"
	"encoding/json"
	"time"

	"enscho/internal/models"
	"enscho/internal/repository"
)

// Action constants
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionLoginFailed    = "login_failed"
	ActionPasswordChange = "password_change"
	ActionPostCreate     = "post_create"
	ActionPostUpdate     = "post_update"
	ActionPostDelete     = "post_delete"
	ActionPostPublish    = "post_publish"
	ActionPostUnpublish  = "post_unpublish"
	ActionPageCreate     = "page_create"
	ActionPageUpdate     = "page_update"
	ActionPageDelete     = "page_delete"
	ActionMajorCreate    = "major_create"
	ActionMajorUpdate    = "major_update"
	ActionMajorDelete    = "major_delete"
	ActionPartnerCreate  = "partner_create"
	ActionPartnerUpdate  = "partner_update"
	ActionPartnerDelete  = "partner_delete"
	ActionGalleryUpload  = "gallery_upload"
	ActionGalleryDelete  = "gallery_delete"
	ActionPPDBSubmit     = "ppdb_submit"
	ActionPPDBStatus     = "ppdb_status"
	ActionPPDBExport     = "ppdb_export"
	ActionUserCreate     = "user_create"
	ActionUserUpdate     = "user_update"
	ActionUserBlock      = "user_block"
	ActionUserUnblock    = "user_unblock"
	ActionOwnershipDeny  = "ownership_denied"
)

// Entity types
const (
	EntityUser         = "user"
	EntityPost         = "post"
	EntityPage         = "page"
	EntityMajor        = "major"
	EntityPartner      = "partner"
	EntityGallery      = "gallery"
	EntityRegistration = "registration"
)

type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Log(ctx context.Context, userID *int64, action, entityType string, entityID *int64, details interface{}, ip string) error {
	var detailsStr string
	if details != nil {
		if str, ok := details.(string); ok {
			detailsStr = str
		} else {
			data, _ := json.Marshal(details)
			detailsStr = string(data)
		}
	}

	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsStr,
		IP:         ip,
	}
	return s.repo.Create(ctx, log)
}

// LogUser records an action by a known user. A zero userID is stored as NULL.
func (s *AuditService) LogUser(ctx context.Context, userID int64, action, entityType string, entityID *int64, details interface{}, ip string) error {
	if userID == 0 {
		return s.Log(ctx, nil, action, entityType, entityID, details, ip)
	}
	return s.Log(ctx, &userID, action, entityType, entityID, details, ip)
}

func (s *AuditService) LogAnonymous(ctx context.Context, action, entityType string, details interface{}, ip string) error {
	return s.Log(ctx, nil, action, entityType, nil, details, ip)
}

func (s *AuditService) List(ctx context.Context, page, perPage int) ([]*models.AuditLog, int, error) {
	if perPage <= 0 {
		perPage = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * perPage

	logs, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (s *AuditService) ListByEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByEntity(ctx, entityType, entityID, limit)
}

func (s *AuditService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return s.repo.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -retentionDays))
}

// IDPtr is a helper for the optional entity id arguments.
func IDPtr(id int64) *int64 {
	return &id
}
