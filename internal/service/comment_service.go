package service

import (
	"context"
	"fmt"
	"strings"

	"campusfeed/internal/models"
	"campusfeed/internal/repository"

	"gorm.io/gorm"
)

// CreateCommentInput carries a new comment from the HTTP layer.
type CreateCommentInput struct {
	PostID   uint
	Content  string
	ParentID *uint
}

// CommentService handles comments and keeps the post's cached comment
// counter in step with the comments table.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	dispatcher  *NotificationService
}

// NewCommentService creates the comment service.
func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	dispatcher *NotificationService,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		dispatcher:  dispatcher,
	}
}

// Create inserts the comment, bumps the post's comment counter, and records
// a notification for the post author, all in one transaction. Commenting on
// your own post notifies nobody. Every comment notifies, including repeats
// from the same commenter.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput, author *models.User) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	var (
		comment *models.Comment
		notif   *models.Notification
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		post, err := posts.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}

		if in.ParentID != nil {
			parent, err := repository.NewCommentRepository(tx).GetByID(ctx, *in.ParentID)
			if err != nil {
				return err
			}
			if parent.PostID != in.PostID {
				return models.NewValidationError("Parent comment belongs to a different post")
			}
		}

		authorID := author.ID
		comment = &models.Comment{
			PostID:   in.PostID,
			Content:  in.Content,
			AuthorID: &authorID,
			ParentID: in.ParentID,
		}
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		if err := posts.AdjustCommentsCount(ctx, in.PostID, 1); err != nil {
			return err
		}

		if post.AuthorID != nil && *post.AuthorID != author.ID {
			target := models.PostTarget(post.ID)
			notif, err = s.dispatcher.Record(ctx, tx, NotifyInput{
				RecipientID: *post.AuthorID,
				Sender:      author,
				Type:        models.NotificationComment,
				Title:       "New Comment",
				Message:     fmt.Sprintf("%s commented on your post", author.FullName),
				Ref:         &target,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	comment.Author = author
	s.dispatcher.Push(notif)
	return comment, nil
}

// List returns the post's comments oldest-first with per-comment reaction
// counts. Viewer 0 leaves user_reacted unset everywhere.
func (s *CommentService) List(ctx context.Context, postID uint, viewerID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	reactions := repository.NewReactionRepository(s.db)
	for _, c := range comments {
		counts, err := reactions.CountsFor(ctx, models.CommentTarget(c.ID), viewerID)
		if err != nil {
			return nil, err
		}
		c.Reactions = counts
	}
	return comments, nil
}

// Delete removes a comment and decrements the post's counter atomically.
// Owners delete their own; admins delete any.
func (s *CommentService) Delete(ctx context.Context, id uint, actor *models.User) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner := comment.AuthorID != nil && *comment.AuthorID == actor.ID
	if !isOwner && !actor.IsAdmin() {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		return repository.NewPostRepository(tx).AdjustCommentsCount(ctx, comment.PostID, -1)
	})
}
