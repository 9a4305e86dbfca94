package models

import "time"

// Comment represents a comment on a post. Like posts, the vote columns are
// cached aggregates backed by the votes table.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`

	PostID   uint  `gorm:"not null;index" json:"post_id"`
	AuthorID *uint `gorm:"index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author"`

	// ParentID threads replies; the flat list is returned and nested client-side.
	ParentID *uint `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `json:"created_at"`

	// Reactions is populated on list reads, not persisted on this row.
	Reactions []ReactionCount `gorm:"-" json:"reactions,omitempty"`
}
