package models

import "time"

// Audited admin actions.
const (
	AuditPinPost    = "PIN_POST"
	AuditUnpinPost  = "UNPIN_POST"
	AuditDeletePost = "DELETE_POST"
)

// AuditLog records an administrative action against a target.
type AuditLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Action     string     `gorm:"not null" json:"action"`
	AdminID    uint       `gorm:"not null" json:"admin_id"`
	TargetID   uint       `json:"target_id"`
	TargetType TargetKind `json:"target_type"`
	Details    string     `json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
