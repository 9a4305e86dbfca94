package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user (multi-device/multi-tab).
	maxConnsPerUser = 12
	// Max total connections.
	maxTotalConns = 10000
)

// Hub is the live connection registry: it maps user id to that user's set of
// websocket clients. It is explicitly owned and injected, never a hidden
// singleton, so tests construct isolated instances.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
	}
}

// Register adds a connection for the given user. Returns the Client, or an
// error when a connection limit is exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}

	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++

	return client, nil
}

// UnregisterClient removes a client from the registry. Safe to call for a
// client that was never registered or was already removed; the user's entry
// is dropped once its set empties.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.UserID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	h.totalConns--
	if len(m) == 0 {
		delete(h.conns, client.UserID)
	}
}

// clientsFor snapshots a user's client set so sends happen without holding
// the registry lock. A failing client may then unregister itself mid-send
// without deadlocking.
func (h *Hub) clientsFor(userID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m := h.conns[userID]
	if len(m) == 0 {
		return nil
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	return clients
}

// Broadcast sends message to every live connection for userID. Per-channel
// failure is isolated: one broken client never aborts delivery to the rest
// and never surfaces an error to the caller.
func (h *Hub) Broadcast(userID uint, message string) {
	data := []byte(message)
	for _, c := range h.clientsFor(userID) {
		c.TrySend(data)
	}
}

// BroadcastAll sends message to every connected client across all users.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	clients := make([]*Client, 0, h.totalConns)
	for _, m := range h.conns {
		for c := range m {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	data := []byte(message)
	for _, c := range clients {
		c.TrySend(data)
	}
}

// IsOnline reports whether a user currently has at least one live connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// ConnectionCount returns the total number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// StartWiring subscribes the hub to the notifier's Redis channels and
// forwards incoming payloads to the matching connections. With Redis in play,
// events published by any process instance reach clients attached here.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		if channel == broadcastChannel {
			h.BroadcastAll(payload)
			return
		}
		if !strings.HasPrefix(channel, userChannelPrefix) {
			log.Printf("invalid notification channel: %s", channel)
			return
		}
		var userID uint
		if _, err := fmt.Sscanf(channel, userChannelPrefix+"%d", &userID); err != nil {
			log.Printf("invalid notification channel: %s", channel)
			return
		}
		h.Broadcast(userID, payload)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0

	return nil
}
