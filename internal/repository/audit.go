package repository

import (
	"context"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// AuditRepository records administrative actions.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByTarget(ctx context.Context, target models.Target) ([]*models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit log repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translate(err, "AuditLog", 0)
	}
	return nil
}

func (r *auditRepository) ListByTarget(ctx context.Context, target models.Target) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND target_type = ?", target.ID, target.Kind).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "AuditLog", target.ID)
	}
	return entries, nil
}
