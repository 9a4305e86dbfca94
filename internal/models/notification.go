package models

import "time"

// Notification types.
const (
	NotificationComment      = "comment"
	NotificationUpvote       = "upvote"
	NotificationAnnouncement = "announcement"
)

// Notification is the durable record behind the notification list and unread
// badge. Rows are immutable after creation except for the is_read flag; the
// realtime copy pushed over the websocket is best-effort and never the source
// of truth.
type Notification struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	SenderID    *uint  `json:"sender_id,omitempty"` // nil for system notifications
	Sender      *User  `gorm:"foreignKey:SenderID" json:"-"`
	Type        string `gorm:"index;not null" json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`

	ReferenceID   *uint      `json:"reference_id,omitempty"`
	ReferenceType TargetKind `json:"reference_type,omitempty"`

	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationView is the listing shape with the sender summary embedded.
type NotificationView struct {
	ID            uint         `json:"id"`
	Type          string       `json:"type"`
	Title         string       `json:"title"`
	Message       string       `json:"message"`
	ReferenceID   *uint        `json:"reference_id,omitempty"`
	ReferenceType TargetKind   `json:"reference_type,omitempty"`
	IsRead        bool         `json:"is_read"`
	CreatedAt     time.Time    `json:"created_at"`
	Sender        *UserSummary `json:"sender"`
}

// View projects a notification into its listing shape.
func (n *Notification) View() NotificationView {
	v := NotificationView{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		ReferenceID:   n.ReferenceID,
		ReferenceType: n.ReferenceType,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
	if n.Sender != nil {
		s := n.Sender.Summary()
		v.Sender = &s
	}
	return v
}
