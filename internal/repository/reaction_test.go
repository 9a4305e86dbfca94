package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfeed/internal/models"
)

func TestToggleReaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	user := seedUser(t, db, "user@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	repo := NewReactionRepository(db)
	target := models.PostTarget(post.ID)

	reaction, err := repo.Toggle(ctx, user.ID, target, "🔥")
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, "🔥", reaction.Emoji)

	// Same emoji toggles off.
	reaction, err = repo.Toggle(ctx, user.ID, target, "🔥")
	require.NoError(t, err)
	assert.Nil(t, reaction)

	counts, err := repo.CountsFor(ctx, target, user.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestDifferentEmojisCoexist(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	user := seedUser(t, db, "user@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	repo := NewReactionRepository(db)
	target := models.PostTarget(post.ID)

	_, err := repo.Toggle(ctx, user.ID, target, "🔥")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, user.ID, target, "❤️")
	require.NoError(t, err)

	counts, err := repo.CountsFor(ctx, target, user.ID)
	require.NoError(t, err)
	assert.Len(t, counts, 2)
}

func TestCountsForFlagsViewer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	alice := seedUser(t, db, "alice@campus.edu", models.RoleStudent)
	bob := seedUser(t, db, "bob@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)

	repo := NewReactionRepository(db)
	target := models.PostTarget(post.ID)

	_, err := repo.Toggle(ctx, alice.ID, target, "🔥")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, bob.ID, target, "🔥")
	require.NoError(t, err)

	counts, err := repo.CountsFor(ctx, target, alice.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 2, counts[0].Count)
	assert.True(t, counts[0].UserReacted)

	// Anonymous viewer sees counts but no flags.
	counts, err = repo.CountsFor(ctx, target, 0)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.False(t, counts[0].UserReacted)
}

func TestReactionsOnCommentsIsolatedFromPosts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author@campus.edu", models.RoleStudent)
	user := seedUser(t, db, "user@campus.edu", models.RoleStudent)
	post := seedPost(t, db, author)
	comment := seedComment(t, db, post, author)

	repo := NewReactionRepository(db)

	_, err := repo.Toggle(ctx, user.ID, models.CommentTarget(comment.ID), "👍")
	require.NoError(t, err)

	postCounts, err := repo.CountsFor(ctx, models.PostTarget(post.ID), user.ID)
	require.NoError(t, err)
	assert.Empty(t, postCounts)

	commentCounts, err := repo.CountsFor(ctx, models.CommentTarget(comment.ID), user.ID)
	require.NoError(t, err)
	assert.Len(t, commentCounts, 1)
}
