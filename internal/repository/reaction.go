package repository

import (
	"context"
	"errors"

	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository owns emoji reactions. Counts are grouped at read time;
// nothing is cached on the target.
type ReactionRepository interface {
	// Toggle removes the (user, target, emoji) reaction if present and
	// returns nil; otherwise it creates and returns the new reaction.
	Toggle(ctx context.Context, userID uint, target models.Target, emoji string) (*models.Reaction, error)
	// CountsFor returns the per-emoji aggregate for a target. With a
	// non-zero viewerID each row carries whether that viewer reacted.
	CountsFor(ctx context.Context, target models.Target, viewerID uint) ([]models.ReactionCount, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func byTarget(q *gorm.DB, target models.Target) *gorm.DB {
	if target.Kind == models.TargetPost {
		return q.Where("post_id = ?", target.ID)
	}
	return q.Where("comment_id = ?", target.ID)
}

func (r *reactionRepository) Toggle(ctx context.Context, userID uint, target models.Target, emoji string) (*models.Reaction, error) {
	var created *models.Reaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := byTarget(tx.Where("user_id = ? AND emoji = ?", userID, emoji), target).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.Reaction{
				UserID:    userID,
				PostID:    target.PostID(),
				CommentID: target.CommentID(),
				Emoji:     emoji,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				return translate(err, "Reaction", target.ID)
			}
			created = &reaction
			return nil

		case err != nil:
			return translate(err, "Reaction", target.ID)

		default:
			// Toggle off.
			if err := tx.Delete(&existing).Error; err != nil {
				return translate(err, "Reaction", existing.ID)
			}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *reactionRepository) CountsFor(ctx context.Context, target models.Target, viewerID uint) ([]models.ReactionCount, error) {
	type row struct {
		Emoji string
		Count int64
	}
	var rows []row
	err := byTarget(r.db.WithContext(ctx).Model(&models.Reaction{}), target).
		Select("emoji, count(*) as count").
		Group("emoji").
		Order("emoji").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "Reaction", target.ID)
	}

	viewerReacted := make(map[string]bool)
	if viewerID != 0 {
		var emojis []string
		err := byTarget(r.db.WithContext(ctx).Model(&models.Reaction{}).Where("user_id = ?", viewerID), target).
			Pluck("emoji", &emojis).Error
		if err != nil {
			return nil, translate(err, "Reaction", target.ID)
		}
		for _, e := range emojis {
			viewerReacted[e] = true
		}
	}

	counts := make([]models.ReactionCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, models.ReactionCount{
			Emoji:       r.Emoji,
			Count:       r.Count,
			UserReacted: viewerReacted[r.Emoji],
		})
	}
	return counts, nil
}
