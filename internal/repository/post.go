package repository

import (
	"context"
	"time"

	"campusfeed/internal/cache"
	"campusfeed/internal/models"
	"campusfeed/internal/visibility"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPostsFilter narrows and pages the feed query.
type ListPostsFilter struct {
	Department string
	Tags       string
	Limit      int
	Offset     int
	// Now anchors the effective-pin ordering so callers (and tests) control
	// the clock.
	Now time.Time
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, in ListPostsFilter) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	// IncrementShare bumps share_count atomically and returns the new value.
	IncrementShare(ctx context.Context, id uint) (int, error)
	// AdjustCommentsCount moves the cached comment counter by delta,
	// flooring at zero.
	AdjustCommentsCount(ctx context.Context, id uint, delta int) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err, "Post", 0)
	}
	cache.Invalidate(ctx, cache.PostsListKey())
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	})
	if err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, in ListPostsFilter) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Preload("Author")

	if in.Department != "" && in.Department != "ALL" {
		q = q.Where("department = ?", in.Department)
	}
	if in.Tags != "" {
		q = q.Where("tags LIKE ?", "%"+in.Tags+"%")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var posts []*models.Post
	err := q.Clauses(clause.OrderBy{
		Expression: clause.Expr{
			// Effectively-pinned posts sort first, then recency.
			SQL:                visibility.PinOrderSQL,
			Vars:               []interface{}{now},
			WithoutParentheses: true,
		},
	}).
		Limit(in.Limit).
		Offset(in.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "Post", 0)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return translate(err, "Post", post.ID)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID), cache.PostsListKey())
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return translate(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id), cache.PostsListKey())
	return nil
}

func (r *postRepository) IncrementShare(ctx context.Context, id uint) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("share_count", gorm.Expr("share_count + 1"))
	if res.Error != nil {
		return 0, translate(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}

	var shareCount int
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Pluck("share_count", &shareCount).Error
	if err != nil {
		return 0, translate(err, "Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return shareCount, nil
}

func (r *postRepository) AdjustCommentsCount(ctx context.Context, id uint, delta int) error {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id)
	if delta < 0 {
		// Never drive the cached counter negative.
		q = q.Where("comments_count >= ?", -delta)
	}
	res := q.UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id), cache.PostsListKey())
	return nil
}
