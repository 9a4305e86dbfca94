package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfeed/internal/models"
)

func commentsCount(t *testing.T, env *testEnv, postID uint) int {
	t.Helper()
	var post models.Post
	require.NoError(t, env.db.First(&post, postID).Error)
	return post.CommentsCount
}

func TestCreateCommentBumpsCounterAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	commenter := env.seedUser(t, "commenter@campus.edu", models.RoleStudent)
	post := env.seedPost(t, author)

	comment, err := env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "same question"}, commenter)
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, 1, commentsCount(t, env, post.ID))

	var notifs []models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", author.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationComment, notifs[0].Type)
	require.NotNil(t, notifs[0].ReferenceID)
	assert.Equal(t, post.ID, *notifs[0].ReferenceID)

	// Unlike upvotes, repeat comments keep notifying.
	_, err = env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "bump"}, commenter)
	require.NoError(t, err)
	require.NoError(t, env.db.Where("recipient_id = ?", author.ID).Find(&notifs).Error)
	assert.Len(t, notifs, 2)
	assert.Equal(t, 2, commentsCount(t, env, post.ID))
}

func TestSelfCommentDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	post := env.seedPost(t, author)

	_, err := env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "answering myself"}, author)
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 1, commentsCount(t, env, post.ID))
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "user@campus.edu", models.RoleStudent)

	_, err := env.comments.Create(ctx, CreateCommentInput{PostID: 1, Content: "   "}, user)
	assert.Equal(t, models.CodeValidation, appCode(t, err))

	_, err = env.comments.Create(ctx, CreateCommentInput{PostID: 999, Content: "hello"}, user)
	assert.Equal(t, models.CodeNotFound, appCode(t, err))
}

func TestReplyMustTargetSamePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	user := env.seedUser(t, "user@campus.edu", models.RoleStudent)
	postA := env.seedPost(t, author)
	postB := env.seedPost(t, author)

	parent, err := env.comments.Create(ctx, CreateCommentInput{PostID: postA.ID, Content: "parent"}, user)
	require.NoError(t, err)

	reply, err := env.comments.Create(ctx, CreateCommentInput{PostID: postA.ID, Content: "reply", ParentID: &parent.ID}, user)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)

	_, err = env.comments.Create(ctx, CreateCommentInput{PostID: postB.ID, Content: "cross reply", ParentID: &parent.ID}, user)
	assert.Equal(t, models.CodeValidation, appCode(t, err))
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	commenter := env.seedUser(t, "commenter@campus.edu", models.RoleStudent)
	post := env.seedPost(t, author)

	comment, err := env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "temp"}, commenter)
	require.NoError(t, err)
	require.NoError(t, env.comments.Delete(ctx, comment.ID, commenter))
	assert.Zero(t, commentsCount(t, env, post.ID))

	err = env.comments.Delete(ctx, comment.ID, commenter)
	assert.Equal(t, models.CodeNotFound, appCode(t, err))
}

func TestDeleteCommentPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	commenter := env.seedUser(t, "commenter@campus.edu", models.RoleStudent)
	stranger := env.seedUser(t, "stranger@campus.edu", models.RoleStudent)
	admin := env.seedUser(t, "admin@campus.edu", models.RoleAdmin)
	post := env.seedPost(t, author)

	comment, err := env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "keep out"}, commenter)
	require.NoError(t, err)

	err = env.comments.Delete(ctx, comment.ID, stranger)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	require.NoError(t, env.comments.Delete(ctx, comment.ID, admin))
}

func TestListCommentsWithReactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	commenter := env.seedUser(t, "commenter@campus.edu", models.RoleStudent)
	post := env.seedPost(t, author)

	comment, err := env.comments.Create(ctx, CreateCommentInput{PostID: post.ID, Content: "nice"}, commenter)
	require.NoError(t, err)
	_, err = env.engagement.ToggleReaction(ctx, author.ID, models.CommentTarget(comment.ID), "👍")
	require.NoError(t, err)

	comments, err := env.comments.List(ctx, post.ID, author.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Reactions, 1)
	assert.Equal(t, "👍", comments[0].Reactions[0].Emoji)
	assert.True(t, comments[0].Reactions[0].UserReacted)

	_, err = env.comments.List(ctx, 999, 0)
	assert.Equal(t, models.CodeNotFound, appCode(t, err))
}
