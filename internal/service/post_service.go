package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusfeed/internal/cache"
	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/notifications"
	"campusfeed/internal/repository"
	"campusfeed/internal/visibility"

	"gorm.io/gorm"
)

// Keyword buckets for auto-tagging new posts.
var (
	academicKeywords = []string{"exam", "study", "class", "course", "assignment", "homework", "professor", "lecture"}
	eventKeywords    = []string{"event", "party", "meetup", "concert", "festival", "workshop", "seminar"}
)

// CreatePostInput carries a new post from the HTTP layer.
type CreatePostInput struct {
	AuthorID    uint
	Title       string
	Content     string
	Department  string
	Tags        string
	Type        string
	IsAnonymous bool
}

// ListPostsInput filters and pages the feed. Viewer is nil for anonymous
// readers and controls anonymity redaction only.
type ListPostsInput struct {
	Department string
	Tags       string
	Limit      int
	Offset     int
	Viewer     *models.User
}

// PostService handles post lifecycle, feed reads, and pin administration.
type PostService struct {
	db        *gorm.DB
	postRepo  repository.PostRepository
	auditRepo repository.AuditRepository
	publisher *notifications.Publisher
	now       func() time.Time
}

// NewPostService creates the post service.
func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	auditRepo repository.AuditRepository,
	publisher *notifications.Publisher,
) *PostService {
	return &PostService{
		db:        db,
		postRepo:  postRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// autoTags derives tags from the post text. User-supplied tags win on
// overlap; derived tags are appended.
func autoTags(existing, title, content string) string {
	text := strings.ToLower(title + " " + content)

	tags := []string{}
	seen := map[string]bool{}
	for _, t := range strings.Split(existing, ",") {
		t = strings.TrimSpace(t)
		if t != "" && !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			tags = append(tags, t)
		}
	}

	matches := func(words []string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
	if matches(academicKeywords) && !seen["academic"] {
		tags = append(tags, "Academic")
	}
	if matches(eventKeywords) && !seen["event"] {
		tags = append(tags, "Event")
	}
	return strings.Join(tags, ",")
}

// Create validates and persists a new post, then broadcasts a new_post event
// to every connection. Anonymous posts broadcast with no author identity
// regardless of who is listening.
func (s *PostService) Create(ctx context.Context, in CreatePostInput, author *models.User) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if in.Department == "" {
		in.Department = author.Department
	}
	if in.Department == "" {
		return nil, models.NewValidationError("Department is required")
	}

	switch in.Type {
	case "":
		in.Type = models.PostTypeDiscussion
	case models.PostTypeDiscussion, models.PostTypeQuestion, models.PostTypeAnnouncement:
	default:
		return nil, models.NewValidationError("Post type must be discussion, question, or announcement")
	}

	authorID := author.ID
	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		Department:  in.Department,
		Tags:        autoTags(in.Tags, in.Title, in.Content),
		Type:        in.Type,
		IsAnonymous: in.IsAnonymous,
		AuthorID:    &authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = author

	if s.publisher != nil {
		payload := map[string]interface{}{
			"post_id":    post.ID,
			"title":      post.Title,
			"department": post.Department,
			"type":       post.Type,
			"created_at": post.CreatedAt.UTC().Format(time.RFC3339),
		}
		if !post.IsAnonymous {
			payload["author"] = author.Summary()
		}
		go s.publisher.PublishAll(notifications.EventNewPost, payload)
	}

	return post, nil
}

// List returns the feed page with effectively-pinned posts first and
// anonymous authors redacted for the viewer. The unfiltered first page is
// served cache-aside.
func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	filter := repository.ListPostsFilter{
		Department: in.Department,
		Tags:       in.Tags,
		Limit:      in.Limit,
		Offset:     in.Offset,
		Now:        s.now(),
	}

	var posts []*models.Post
	var err error
	if in.Department == "" && in.Tags == "" && in.Offset == 0 && in.Limit == 20 {
		err = cache.Aside(ctx, cache.PostsListKey(), &posts, cache.PostsListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, filter)
			return fetchErr
		})
	} else {
		posts, err = s.postRepo.List(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	visibility.RedactAuthors(posts, in.Viewer)
	visibility.MarkEffectivePins(posts, filter.Now)
	return posts, nil
}

// Get returns one post with the author redacted when anonymous.
func (s *PostService) Get(ctx context.Context, id uint, viewer *models.User) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visibility.RedactAuthor(post, viewer)
	visibility.MarkEffectivePin(post, s.now())
	return post, nil
}

// Delete removes a post. Owners delete their own; admins delete any, and an
// admin deleting someone else's post leaves an audit trail in the same
// transaction.
func (s *PostService) Delete(ctx context.Context, id uint, actor *models.User) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner := post.AuthorID != nil && *post.AuthorID == actor.ID
	if !isOwner && !actor.IsAdmin() {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !isOwner {
			entry := &models.AuditLog{
				Action:     models.AuditDeletePost,
				AdminID:    actor.ID,
				TargetID:   post.ID,
				TargetType: models.TargetPost,
				Details:    fmt.Sprintf("deleted post %q", post.Title),
			}
			if err := repository.NewAuditRepository(tx).Create(ctx, entry); err != nil {
				return err
			}
		}
		return repository.NewPostRepository(tx).Delete(ctx, id)
	})
}

// Pin marks the post pinned until the expiry implied by the duration code
// and records the action in the audit log atomically.
func (s *PostService) Pin(ctx context.Context, id uint, duration string, admin *models.User) (*models.Post, error) {
	until, err := visibility.PinExpiry(duration, s.now())
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.IsPinned = true
	post.PinnedUntil = until

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Update(ctx, post); err != nil {
			return err
		}
		details := "pinned indefinitely"
		if until != nil {
			details = fmt.Sprintf("pinned for %s (until %s)", duration, until.UTC().Format(time.RFC3339))
		}
		return repository.NewAuditRepository(tx).Create(ctx, &models.AuditLog{
			Action:     models.AuditPinPost,
			AdminID:    admin.ID,
			TargetID:   post.ID,
			TargetType: models.TargetPost,
			Details:    details,
		})
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post pinned",
		"post_id", post.ID, "admin_id", admin.ID, "duration", duration)
	return post, nil
}

// Unpin clears the pin flags and records the action. Unpinning an unpinned
// post is a no-op that still succeeds.
func (s *PostService) Unpin(ctx context.Context, id uint, admin *models.User) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.IsPinned = false
	post.PinnedUntil = nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Update(ctx, post); err != nil {
			return err
		}
		return repository.NewAuditRepository(tx).Create(ctx, &models.AuditLog{
			Action:     models.AuditUnpinPost,
			AdminID:    admin.ID,
			TargetID:   post.ID,
			TargetType: models.TargetPost,
			Details:    "unpinned",
		})
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AuditTrail lists the admin actions recorded against a post.
func (s *PostService) AuditTrail(ctx context.Context, id uint) ([]*models.AuditLog, error) {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.auditRepo.ListByTarget(ctx, models.PostTarget(id))
}
