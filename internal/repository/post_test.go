package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusfeed/internal/models"
)

func seedPostAt(t *testing.T, db *gorm.DB, author *models.User, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      title,
		Content:    "content",
		Department: "CS",
		AuthorID:   &author.ID,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestListOrdersEffectivelyPinnedFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedPostAt(t, db, author, "older", now.Add(-3*time.Hour))
	seedPostAt(t, db, author, "newer", now.Add(-1*time.Hour))

	expiredPin := seedPostAt(t, db, author, "expired pin", now.Add(-2*time.Hour))
	past := now.Add(-time.Minute)
	require.NoError(t, db.Model(expiredPin).Updates(map[string]interface{}{
		"is_pinned": true, "pinned_until": past,
	}).Error)

	activePin := seedPostAt(t, db, author, "active pin", now.Add(-4*time.Hour))
	future := now.Add(time.Hour)
	require.NoError(t, db.Model(activePin).Updates(map[string]interface{}{
		"is_pinned": true, "pinned_until": future,
	}).Error)

	foreverPin := seedPostAt(t, db, author, "forever pin", now.Add(-5*time.Hour))
	require.NoError(t, db.Model(foreverPin).Update("is_pinned", true).Error)

	posts, err := NewPostRepository(db).List(ctx, ListPostsFilter{Limit: 10, Now: now})
	require.NoError(t, err)
	require.Len(t, posts, 5)

	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	// Effectively pinned first (newest first among them), then the rest by
	// recency. The expired pin sorts as a normal post.
	assert.Equal(t, []string{"active pin", "forever pin", "newer", "expired pin", "older"}, titles)
}

func TestListFiltersByDepartment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)

	cs := seedPostAt(t, db, author, "cs post", time.Now())
	require.NoError(t, db.Model(cs).Update("department", "CS").Error)
	math := seedPostAt(t, db, author, "math post", time.Now())
	require.NoError(t, db.Model(math).Update("department", "MATH").Error)

	repo := NewPostRepository(db)

	posts, err := repo.List(ctx, ListPostsFilter{Department: "MATH", Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "math post", posts[0].Title)

	// "ALL" is a wildcard, not a department name.
	posts, err = repo.List(ctx, ListPostsFilter{Department: "ALL", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestListFiltersByTag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)

	tagged := seedPostAt(t, db, author, "tagged", time.Now())
	require.NoError(t, db.Model(tagged).Update("tags", "Academic,Event").Error)
	seedPostAt(t, db, author, "untagged", time.Now())

	posts, err := NewPostRepository(db).List(ctx, ListPostsFilter{Tags: "Academic", Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "tagged", posts[0].Title)
}

func TestIncrementShare(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	repo := NewPostRepository(db)

	count, err := repo.IncrementShare(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.IncrementShare(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.IncrementShare(ctx, 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestAdjustCommentsCountFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	repo := NewPostRepository(db)

	require.NoError(t, repo.AdjustCommentsCount(ctx, post.ID, 1))
	require.NoError(t, repo.AdjustCommentsCount(ctx, post.ID, -1))
	// Already at zero: the decrement is a no-op, not an underflow.
	require.NoError(t, repo.AdjustCommentsCount(ctx, post.ID, -1))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Zero(t, stored.CommentsCount)
}

func TestDeleteMissingPost(t *testing.T) {
	db := newTestDB(t)

	err := NewPostRepository(db).Delete(context.Background(), 12345)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestGetByIDPreloadsAuthor(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	got, err := NewPostRepository(db).GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, author.Email, got.Author.Email)
}
