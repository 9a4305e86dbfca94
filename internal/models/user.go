package models

import "time"

// User roles. Authentication happens upstream; this service only needs the
// resolved identity and role for redaction and admin checks.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User represents a campus account referenced by posts, votes, and notifications.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Username   string    `gorm:"uniqueIndex" json:"username"`
	FullName   string    `json:"full_name"`
	Department string    `gorm:"index" json:"department"`
	Role       string    `gorm:"default:student" json:"role"`
	Bio        string    `json:"bio,omitempty"`
	AvatarURL  string    `json:"profile_photo_url,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds administrative capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the embedded sender shape used in notification listings
// and realtime event payloads.
type UserSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"profile_photo,omitempty"`
}

// Summary projects the fields safe to embed in another user's payload.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.FullName,
		AvatarURL: u.AvatarURL,
	}
}
