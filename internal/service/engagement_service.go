package service

import (
	"context"
	"fmt"
	"strings"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/ratelimit"
	"campusfeed/internal/repository"

	"gorm.io/gorm"
)

// EngagementService handles votes, reactions, and shares.
type EngagementService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	limiter    *ratelimit.Limiter
	dispatcher *NotificationService
}

// NewEngagementService creates the engagement service.
func NewEngagementService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	limiter *ratelimit.Limiter,
	dispatcher *NotificationService,
) *EngagementService {
	return &EngagementService{
		db:         db,
		userRepo:   userRepo,
		postRepo:   postRepo,
		limiter:    limiter,
		dispatcher: dispatcher,
	}
}

// CastVote toggles the user's vote on the target and keeps the cached
// counters in step with the vote ledger. A first upvote on another user's
// post also records an upvote notification in the same transaction, so the
// counters and the notification commit or roll back together.
func (s *EngagementService) CastVote(ctx context.Context, userID uint, target models.Target, voteType int) (*models.VoteResult, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, models.NewValidationError("Vote type must be 1 (upvote) or -1 (downvote)")
	}

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		result *models.VoteResult
		notif  *models.Notification
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = repository.NewVoteRepository(tx).CastVote(ctx, userID, target, voteType)
		if txErr != nil {
			return txErr
		}

		if result.Status == models.VoteStatusAdded &&
			voteType == models.VoteUp &&
			target.Kind == models.TargetPost &&
			result.OwnerID != nil && *result.OwnerID != userID {
			notif, txErr = s.dispatcher.Record(ctx, tx, NotifyInput{
				RecipientID: *result.OwnerID,
				Sender:      actor,
				Type:        models.NotificationUpvote,
				Title:       "New Upvote",
				Message:     fmt.Sprintf("%s upvoted your post", actor.FullName),
				Ref:         &target,
			})
			if txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Push(notif)
	return result, nil
}

// ToggleReaction adds the user's emoji reaction to the target, or removes it
// if already present. Returns nil when the reaction was removed.
func (s *EngagementService) ToggleReaction(ctx context.Context, userID uint, target models.Target, emoji string) (*models.Reaction, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, models.NewValidationError("Emoji is required")
	}

	var reaction *models.Reaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		reaction, txErr = repository.NewReactionRepository(tx).Toggle(ctx, userID, target, emoji)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	verb := "added"
	if reaction == nil {
		verb = "removed"
	}
	middleware.Logger.DebugContext(ctx, "reaction toggled",
		"target", target.Kind, "target_id", target.ID, "emoji", emoji, "result", verb)
	return reaction, nil
}

// ReactionCounts returns per-emoji counts for the target with the viewer's
// own reactions flagged. Viewer 0 means anonymous: nothing is flagged.
func (s *EngagementService) ReactionCounts(ctx context.Context, target models.Target, viewerID uint) ([]models.ReactionCount, error) {
	return repository.NewReactionRepository(s.db).CountsFor(ctx, target, viewerID)
}

// IncrementShare bumps the post's share counter after passing the per-actor
// share rate limit. Anonymous actors share one pooled budget.
func (s *EngagementService) IncrementShare(ctx context.Context, postID uint, actorKey string) (int, error) {
	if err := s.limiter.Allow(actorKey, ratelimit.ActionShare, ratelimit.DefaultShareLimit, ratelimit.DefaultShareWindow); err != nil {
		return 0, err
	}
	return s.postRepo.IncrementShare(ctx, postID)
}
