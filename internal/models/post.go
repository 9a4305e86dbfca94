package models

import "time"

// Post types.
const (
	PostTypeDiscussion   = "discussion"
	PostTypeQuestion     = "question"
	PostTypeAnnouncement = "announcement"
)

// Pin duration codes accepted by the pin endpoint.
const (
	PinDuration24h      = "24h"
	PinDuration7d       = "7d"
	PinDuration30d      = "30d"
	PinDurationInfinite = "infinite"
)

// Post represents a feed post. The upvotes/downvotes/comments_count/share_count
// columns are cached aggregates: the votes and comments tables are the source
// of truth, and every mutation adjusts both inside one transaction so the
// cached value always equals the ledger row count.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	Department string `gorm:"not null;index" json:"department"`
	Tags       string `json:"tags,omitempty"`
	Type       string `gorm:"default:discussion" json:"type"`

	// Ghost mode: author identity is cleared at read time for non-admin viewers.
	IsAnonymous bool `gorm:"default:false" json:"is_anonymous"`

	Upvotes       int `gorm:"default:0" json:"upvotes"`
	Downvotes     int `gorm:"default:0" json:"downvotes"`
	CommentsCount int `gorm:"default:0" json:"comments_count"`
	ShareCount    int `gorm:"default:0" json:"share_count"`

	AuthorID *uint `gorm:"index" json:"author_id"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author"`

	// IsPinned and PinnedUntil store the pin request; whether the post is
	// effectively pinned right now is computed at read time and never
	// written back automatically. EffectivePin carries that computed state.
	IsPinned     bool       `gorm:"default:false" json:"is_pinned"`
	PinnedUntil  *time.Time `json:"pinned_until"`
	EffectivePin bool       `gorm:"-" json:"effective_pin"`

	CreatedAt time.Time `json:"created_at"`
}
