package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfeed/internal/models"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New()

	for i := 0; i < DefaultShareLimit; i++ {
		require.NoError(t, l.Allow("user:1", ActionShare, DefaultShareLimit, DefaultShareWindow))
	}

	err := l.Allow("user:1", ActionShare, DefaultShareLimit, DefaultShareWindow)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeRateLimited, appErr.Code)
	assert.Contains(t, appErr.Message, "wait")
}

func TestRejectionRecordsNothing(t *testing.T) {
	now := time.Now()
	l := NewWithClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow("u", ActionShare, 5, time.Minute))
	}
	// Hammering past the limit must not extend the lockout.
	for i := 0; i < 10; i++ {
		require.Error(t, l.Allow("u", ActionShare, 5, time.Minute))
	}

	now = now.Add(61 * time.Second)
	assert.NoError(t, l.Allow("u", ActionShare, 5, time.Minute))
}

func TestWindowSlides(t *testing.T) {
	now := time.Now()
	l := NewWithClock(func() time.Time { return now })

	require.NoError(t, l.Allow("u", ActionShare, 2, time.Minute))
	now = now.Add(30 * time.Second)
	require.NoError(t, l.Allow("u", ActionShare, 2, time.Minute))
	require.Error(t, l.Allow("u", ActionShare, 2, time.Minute))

	// The first attempt ages out; one slot opens.
	now = now.Add(31 * time.Second)
	require.NoError(t, l.Allow("u", ActionShare, 2, time.Minute))
	require.Error(t, l.Allow("u", ActionShare, 2, time.Minute))
}

func TestActorsAndActionsIsolated(t *testing.T) {
	l := New()

	require.NoError(t, l.Allow("user:1", ActionShare, 1, time.Minute))
	require.Error(t, l.Allow("user:1", ActionShare, 1, time.Minute))

	assert.NoError(t, l.Allow("user:2", ActionShare, 1, time.Minute))
	assert.NoError(t, l.Allow(AnonymousActor, ActionShare, 1, time.Minute))
	assert.NoError(t, l.Allow("user:1", "comment", 1, time.Minute))
}

func TestAnonymousSharesOneBucket(t *testing.T) {
	l := New()

	require.NoError(t, l.Allow(AnonymousActor, ActionShare, 1, time.Minute))
	assert.Error(t, l.Allow(AnonymousActor, ActionShare, 1, time.Minute))
}

func TestReset(t *testing.T) {
	l := New()
	require.NoError(t, l.Allow("u", ActionShare, 1, time.Minute))
	require.Error(t, l.Allow("u", ActionShare, 1, time.Minute))

	l.Reset()
	assert.NoError(t, l.Allow("u", ActionShare, 1, time.Minute))
}
