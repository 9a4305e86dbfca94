package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfeed/internal/models"
)

func TestAnnounceReachesEveryoneButSender(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@campus.edu", models.RoleAdmin)
	for i := 0; i < 4; i++ {
		env.seedUser(t, fmt.Sprintf("s%d@campus.edu", i), models.RoleStudent)
	}
	inactive := env.seedUser(t, "gone@campus.edu", models.RoleStudent)
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)

	count, err := env.dispatcher.Announce(ctx, "Campus closed", "Snow day tomorrow", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var rows []models.Notification
	require.NoError(t, env.db.Where("type = ?", models.NotificationAnnouncement).Find(&rows).Error)
	require.Len(t, rows, 4)
	for _, n := range rows {
		assert.NotEqual(t, admin.ID, n.RecipientID)
		assert.NotEqual(t, inactive.ID, n.RecipientID)
		require.NotNil(t, n.SenderID)
		assert.Equal(t, admin.ID, *n.SenderID)
		assert.Equal(t, "Campus closed", n.Title)
	}
}

func TestAnnounceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@campus.edu", models.RoleAdmin)

	_, err := env.dispatcher.Announce(ctx, "", "message", admin.ID)
	assert.Equal(t, models.CodeValidation, appCode(t, err))

	_, err = env.dispatcher.Announce(ctx, "title", "message", 999)
	assert.Equal(t, models.CodeNotFound, appCode(t, err))
}

func TestAnnounceWithNoRecipients(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@campus.edu", models.RoleAdmin)

	count, err := env.dispatcher.Announce(ctx, "Hello", "Anyone there?", admin.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordSuppressesOnlyUpvoteDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author@campus.edu", models.RoleStudent)
	sender := env.seedUser(t, "sender@campus.edu", models.RoleStudent)
	post := env.seedPost(t, author)
	target := models.PostTarget(post.ID)

	upvote := NotifyInput{
		RecipientID: author.ID,
		Sender:      sender,
		Type:        models.NotificationUpvote,
		Title:       "New Upvote",
		Ref:         &target,
	}
	n, err := env.dispatcher.Record(ctx, nil, upvote)
	require.NoError(t, err)
	require.NotNil(t, n)

	n, err = env.dispatcher.Record(ctx, nil, upvote)
	require.NoError(t, err)
	assert.Nil(t, n, "duplicate upvote tuple should be suppressed")

	// Comment notifications for the same tuple are never suppressed.
	comment := upvote
	comment.Type = models.NotificationComment
	comment.Title = "New Comment"
	for i := 0; i < 2; i++ {
		n, err = env.dispatcher.Record(ctx, nil, comment)
		require.NoError(t, err)
		require.NotNil(t, n)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestListReturnsViewsWithSender(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@campus.edu", models.RoleStudent)
	sender := env.seedUser(t, "sender@campus.edu", models.RoleStudent)

	require.NoError(t, env.dispatcher.Notify(ctx, NotifyInput{
		RecipientID: owner.ID,
		Sender:      sender,
		Type:        models.NotificationComment,
		Title:       "New Comment",
		Message:     "sender commented on your post",
	}))

	views, err := env.dispatcher.List(ctx, owner.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Sender)
	assert.Equal(t, sender.ID, views[0].Sender.ID)
	assert.False(t, views[0].IsRead)

	unread, err := env.dispatcher.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, env.dispatcher.MarkAllRead(ctx, owner.ID))
	unread, err = env.dispatcher.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
