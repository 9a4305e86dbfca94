package repository

import (
	"context"
	"errors"

	"campusfeed/internal/cache"
	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// VoteRepository owns the vote ledger and the cached counters derived from it.
type VoteRepository interface {
	// CastVote applies one toggle step for (userID, target): no existing
	// vote creates one, a same-type vote removes it, an opposite-type vote
	// switches it. Ledger row and counters move in one transaction.
	CastVote(ctx context.Context, userID uint, target models.Target, voteType int) (*models.VoteResult, error)
	// CountForTarget counts ledger rows of one vote type for a target.
	CountForTarget(ctx context.Context, target models.Target, voteType int) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) CastVote(ctx context.Context, userID uint, target models.Target, voteType int) (*models.VoteResult, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, models.NewValidationError("Invalid vote type. Use 1 for upvote, -1 for downvote")
	}

	var result *models.VoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch target.Kind {
		case models.TargetPost:
			var post models.Post
			if err := lockForUpdate(tx).First(&post, target.ID).Error; err != nil {
				return translate(err, "Post", target.ID)
			}
			up, down, status, err := applyVote(tx, userID, target, voteType, post.Upvotes, post.Downvotes)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
				Updates(map[string]interface{}{"upvotes": up, "downvotes": down}).Error; err != nil {
				return translate(err, "Post", post.ID)
			}
			result = &models.VoteResult{Status: status, Upvotes: up, Downvotes: down, OwnerID: post.AuthorID}

		case models.TargetComment:
			var comment models.Comment
			if err := lockForUpdate(tx).First(&comment, target.ID).Error; err != nil {
				return translate(err, "Comment", target.ID)
			}
			up, down, status, err := applyVote(tx, userID, target, voteType, comment.Upvotes, comment.Downvotes)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", comment.ID).
				Updates(map[string]interface{}{"upvotes": up, "downvotes": down}).Error; err != nil {
				return translate(err, "Comment", comment.ID)
			}
			result = &models.VoteResult{Status: status, Upvotes: up, Downvotes: down, OwnerID: comment.AuthorID}

		default:
			return models.NewValidationError("Unknown vote target kind")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if target.Kind == models.TargetPost {
		// The counters just moved; drop the cached copies.
		cache.Invalidate(ctx, cache.PostKey(target.ID), cache.PostsListKey())
	}
	return result, nil
}

// applyVote mutates the ledger and returns the adjusted counters. The caller
// holds a row lock on the target, so the lookup-then-mutate sequence is
// isolated per (actor, target).
func applyVote(tx *gorm.DB, userID uint, target models.Target, voteType, up, down int) (int, int, string, error) {
	var existing models.Vote
	q := tx.Where("user_id = ?", userID)
	if target.Kind == models.TargetPost {
		q = q.Where("post_id = ?", target.ID)
	} else {
		q = q.Where("comment_id = ?", target.ID)
	}
	err := q.First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{
			UserID:    userID,
			PostID:    target.PostID(),
			CommentID: target.CommentID(),
			VoteType:  voteType,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return 0, 0, "", translate(err, "Vote", target.ID)
		}
		if voteType == models.VoteUp {
			up++
		} else {
			down++
		}
		return up, down, models.VoteStatusAdded, nil

	case err != nil:
		return 0, 0, "", translate(err, "Vote", target.ID)

	case existing.VoteType == voteType:
		// Toggle off.
		if err := tx.Delete(&existing).Error; err != nil {
			return 0, 0, "", translate(err, "Vote", existing.ID)
		}
		if voteType == models.VoteUp {
			up--
		} else {
			down--
		}
		return up, down, models.VoteStatusRemoved, nil

	default:
		// Switch direction.
		if err := tx.Model(&existing).Update("vote_type", voteType).Error; err != nil {
			return 0, 0, "", translate(err, "Vote", existing.ID)
		}
		if voteType == models.VoteUp {
			up++
			down--
		} else {
			up--
			down++
		}
		return up, down, models.VoteStatusSwitched, nil
	}
}

func (r *voteRepository) CountForTarget(ctx context.Context, target models.Target, voteType int) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Vote{}).Where("vote_type = ?", voteType)
	if target.Kind == models.TargetPost {
		q = q.Where("post_id = ?", target.ID)
	} else {
		q = q.Where("comment_id = ?", target.ID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translate(err, "Vote", target.ID)
	}
	return count, nil
}
