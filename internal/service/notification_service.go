// Package service contains the business logic coordinating repositories,
// the rate limiter, and realtime delivery.
package service

import (
	"context"
	"time"

	"campusfeed/internal/models"
	"campusfeed/internal/notifications"
	"campusfeed/internal/repository"

	"gorm.io/gorm"
)

// NotifyInput describes one notification to dispatch.
type NotifyInput struct {
	RecipientID uint
	// Sender is the acting user, or nil for system notifications.
	Sender  *models.User
	Type    string
	Title   string
	Message string
	// Ref points at the post or comment the notification is about.
	Ref *models.Target
}

// NotificationService is the dispatcher: it owns the durable notification
// records and pushes best-effort realtime copies after the durable write
// commits. The durable write failing fails the triggering operation; the
// realtime push failing never does.
type NotificationService struct {
	db        *gorm.DB
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher *notifications.Publisher
}

// NewNotificationService creates the dispatcher.
func NewNotificationService(
	db *gorm.DB,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher *notifications.Publisher,
) *NotificationService {
	return &NotificationService{
		db:        db,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Record persists a notification using tx (so it commits or rolls back with
// the triggering operation; nil tx uses the service handle). Upvote
// notifications for a (recipient, sender, target) tuple already on record
// are suppressed and return nil. Comment and announcement notifications are
// deliberately not suppressed.
func (s *NotificationService) Record(ctx context.Context, tx *gorm.DB, in NotifyInput) (*models.Notification, error) {
	if tx == nil {
		tx = s.db
	}
	repo := repository.NewNotificationRepository(tx)

	if in.Type == models.NotificationUpvote && in.Sender != nil && in.Ref != nil {
		exists, err := repo.UpvoteExists(ctx, in.RecipientID, in.Sender.ID, *in.Ref)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, nil
		}
	}

	n := &models.Notification{
		RecipientID: in.RecipientID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
	}
	if in.Sender != nil {
		id := in.Sender.ID
		n.SenderID = &id
		n.Sender = in.Sender
	}
	if in.Ref != nil {
		id := in.Ref.ID
		n.ReferenceID = &id
		n.ReferenceType = in.Ref.Kind
	}

	if err := repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Push sends the realtime copy of a recorded notification. Fire-and-forget:
// callers invoke it only after the durable write has committed.
func (s *NotificationService) Push(n *models.Notification) {
	if n == nil || s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"notification_id": n.ID,
		"title":           n.Title,
		"message":         n.Message,
		"created_at":      n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ReferenceID != nil {
		payload["reference_id"] = *n.ReferenceID
		payload["reference_type"] = n.ReferenceType
	}
	if n.Sender != nil {
		payload["sender"] = n.Sender.Summary()
	}
	go s.publisher.PublishUser(n.RecipientID, n.Type, payload)
}

// Notify records and pushes in one step, for callers without a surrounding
// transaction.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) error {
	n, err := s.Record(ctx, nil, in)
	if err != nil {
		return err
	}
	s.Push(n)
	return nil
}

// Announce creates one notification per active user other than the sender
// (all rows in one transaction, all-or-nothing), then broadcasts a single
// realtime event to every connection. Returns the number of recipients.
func (s *NotificationService) Announce(ctx context.Context, title, message string, senderID uint) (int, error) {
	if title == "" || message == "" {
		return 0, models.NewValidationError("Title and message are required")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return 0, err
	}

	recipientIDs, err := s.userRepo.ListIDsExcept(ctx, senderID)
	if err != nil {
		return 0, err
	}

	rows := make([]*models.Notification, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		rows = append(rows, &models.Notification{
			RecipientID: rid,
			SenderID:    &sender.ID,
			Type:        models.NotificationAnnouncement,
			Title:       title,
			Message:     message,
		})
	}
	if err := s.notifRepo.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}

	if s.publisher != nil {
		go s.publisher.PublishAll(notifications.EventAnnouncement, map[string]interface{}{
			"title":       title,
			"message":     message,
			"sender_name": sender.FullName,
			"created_at":  time.Now().UTC().Format(time.RFC3339),
		})
	}

	return len(rows), nil
}

// List returns the recipient's notifications newest-first with the sender
// summary embedded.
func (s *NotificationService) List(ctx context.Context, recipientID uint, limit, offset int) ([]models.NotificationView, error) {
	rows, err := s.notifRepo.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]models.NotificationView, 0, len(rows))
	for _, n := range rows {
		views = append(views, n.View())
	}
	return views, nil
}

// MarkRead marks one notification read if owned by recipientID.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.notifRepo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead marks every unread notification of the recipient read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.notifRepo.MarkAllRead(ctx, recipientID)
}

// CountUnread returns the unread badge count.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}
