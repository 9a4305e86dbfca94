package notifications

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Realtime event types pushed to clients.
const (
	EventComment      = "comment"
	EventUpvote       = "upvote"
	EventNewPost      = "new_post"
	EventAnnouncement = "announcement"
)

// Publisher fans an event out through both delivery paths: directly to this
// process's hub, and through Redis pub/sub for any other instances. Every
// failure is swallowed and logged; realtime delivery is best-effort and must
// never fail the operation that triggered it.
type Publisher struct {
	Hub      *Hub
	Notifier *Notifier
}

// NewPublisher creates a Publisher over the given hub and notifier. Either
// may be nil.
func NewPublisher(hub *Hub, notifier *Notifier) *Publisher {
	return &Publisher{Hub: hub, Notifier: notifier}
}

func (p *Publisher) marshal(eventType string, payload map[string]interface{}) (string, bool) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
		// Event id reserved for future client ack handling.
		"event_id": uuid.NewString(),
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return "", false
	}
	return string(eventJSON), true
}

// PublishUser delivers an event to every live channel of one user.
func (p *Publisher) PublishUser(userID uint, eventType string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	message, ok := p.marshal(eventType, payload)
	if !ok {
		return
	}
	if p.Hub != nil {
		p.Hub.Broadcast(userID, message)
	}
	if p.Notifier != nil {
		if err := p.Notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

// PublishAll delivers an event to every connected client.
func (p *Publisher) PublishAll(eventType string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	message, ok := p.marshal(eventType, payload)
	if !ok {
		return
	}
	if p.Hub != nil {
		p.Hub.BroadcastAll(message)
	}
	if p.Notifier != nil {
		if err := p.Notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}
