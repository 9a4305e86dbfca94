package repository

import (
	"context"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository owns durable notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// CreateBatch inserts all rows or none.
	CreateBatch(ctx context.Context, ns []*models.Notification) error
	// UpvoteExists reports whether an upvote notification for the same
	// (recipient, sender, target) tuple is already on record.
	UpvoteExists(ctx context.Context, recipientID, senderID uint, target models.Target) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Notification, error)
	// MarkRead flips is_read for a notification owned by recipientID. A
	// notification that does not exist or belongs to someone else is
	// NOT_FOUND either way; ownership is never revealed.
	MarkRead(ctx context.Context, id, recipientID uint) error
	// MarkAllRead flips is_read on every unread notification of the
	// recipient. Idempotent.
	MarkAllRead(ctx context.Context, recipientID uint) error
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return translate(err, "Notification", 0)
	}
	return nil
}

func (r *notificationRepository) CreateBatch(ctx context.Context, ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ns).Error
	})
	if err != nil {
		return translate(err, "Notification", 0)
	}
	return nil
}

func (r *notificationRepository) UpvoteExists(ctx context.Context, recipientID, senderID uint, target models.Target) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND sender_id = ? AND type = ? AND reference_id = ? AND reference_type = ?",
			recipientID, senderID, models.NotificationUpvote, target.ID, target.Kind).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "Notification", 0)
	}
	return count > 0, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, translate(err, "Notification", recipientID)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return translate(res.Error, "Notification", id)
	}
	if res.RowsAffected == 0 {
		// Also covers notifications owned by someone else.
		var exists int64
		if err := r.db.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, true).
			Count(&exists).Error; err == nil && exists > 0 {
			return nil // already read, idempotent
		}
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
	if err != nil {
		return translate(err, "Notification", recipientID)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "Notification", recipientID)
	}
	return count, nil
}
