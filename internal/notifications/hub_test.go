package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.Send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return ""
	}
}

func TestRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	c1, err := hub.Register(1, nil)
	require.NoError(t, err)
	c2, err := hub.Register(1, nil)
	require.NoError(t, err)
	other, err := hub.Register(2, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, hub.ConnectionCount())
	assert.True(t, hub.IsOnline(1))

	hub.Broadcast(1, `{"type":"upvote"}`)

	assert.Equal(t, `{"type":"upvote"}`, receive(t, c1))
	assert.Equal(t, `{"type":"upvote"}`, receive(t, c2))
	assert.Empty(t, other.Send)
}

func TestBroadcastAll(t *testing.T) {
	hub := NewHub()
	c1, _ := hub.Register(1, nil)
	c2, _ := hub.Register(2, nil)

	hub.BroadcastAll(`{"type":"announcement"}`)

	assert.Equal(t, `{"type":"announcement"}`, receive(t, c1))
	assert.Equal(t, `{"type":"announcement"}`, receive(t, c2))
}

func TestBroadcastToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() { hub.Broadcast(99, "hello") })
}

func TestUnregisterIdempotent(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, nil)
	require.NoError(t, err)

	hub.UnregisterClient(c)
	hub.UnregisterClient(c)

	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(1))
}

func TestPerUserConnectionLimit(t *testing.T) {
	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(1, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(2, nil)
	assert.NoError(t, err)
}

func TestFailedChannelDoesNotAbortDelivery(t *testing.T) {
	hub := NewHub()
	dead, err := hub.Register(1, nil)
	require.NoError(t, err)
	live, err := hub.Register(1, nil)
	require.NoError(t, err)

	// Simulate a client mid-teardown.
	close(dead.Send)

	hub.Broadcast(1, "still delivered")

	assert.Equal(t, "still delivered", receive(t, live))
	// The dead client was unregistered by its failed send.
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, nil)
	require.NoError(t, err)

	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("fill")
	}

	done := make(chan struct{})
	go func() {
		hub.Broadcast(1, "overflow")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
	// Still registered: a slow client is not a dead client.
	assert.Equal(t, 1, hub.ConnectionCount())
}
