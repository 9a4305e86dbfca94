package models

import "time"

// Reaction records that a user reacted to a target with an emoji. Presence is
// the whole payload; counts are computed by grouping at read time rather than
// cached on the target.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_user_post_emoji;uniqueIndex:uniq_user_comment_emoji" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:uniq_user_post_emoji" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:uniq_user_comment_emoji" json:"comment_id,omitempty"`
	Emoji     string    `gorm:"not null;uniqueIndex:uniq_user_post_emoji;uniqueIndex:uniq_user_comment_emoji" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionCount is one row of the per-emoji aggregate for a target.
type ReactionCount struct {
	Emoji       string `json:"emoji"`
	Count       int64  `json:"count"`
	UserReacted bool   `json:"user_reacted"`
}
