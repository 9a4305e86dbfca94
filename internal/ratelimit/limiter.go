// Package ratelimit bounds the frequency of named actions per actor within a
// sliding window. State is memory-only and resets on process restart; that is
// a documented limitation, not a defect. Swapping the backing store for a
// Redis counter keyed by (actor, action, bucket) would not change the Allow
// contract.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"campusfeed/internal/models"
)

// AnonymousActor keys unauthenticated callers. All anonymous traffic shares
// one bucket; an accepted fairness tradeoff.
const AnonymousActor = "anonymous"

// ActionShare is the action name used by the share endpoint.
const ActionShare = "share"

// UserActor keys an authenticated caller.
func UserActor(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Default policy for sharing.
const (
	DefaultShareLimit  = 5
	DefaultShareWindow = time.Minute
)

// Limiter tracks recent attempt timestamps per (actor, action) pair. Entries
// older than the window are pruned lazily on each check.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

// New creates a Limiter using the wall clock.
func New() *Limiter {
	return &Limiter{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// NewWithClock creates a Limiter with a custom clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		attempts: make(map[string][]time.Time),
		now:      now,
	}
}

// Allow records an attempt by actorKey for action unless the actor already
// made limit attempts within the window. On rejection it returns a
// RATE_LIMITED error carrying a wait hint and records nothing.
func (l *Limiter) Allow(actorKey, action string, limit int, window time.Duration) error {
	key := action + ":" + actorKey
	now := l.now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		// Oldest surviving attempt defines when a slot frees up.
		wait := window - now.Sub(recent[0])
		if wait < time.Second {
			wait = time.Second
		}
		l.attempts[key] = recent
		return models.NewRateLimitedError(fmt.Sprintf(
			"Too many %s attempts. Please wait %s before trying again.",
			action, wait.Round(time.Second),
		))
	}

	l.attempts[key] = append(recent, now)
	return nil
}

// Reset clears all recorded attempts. Test helper.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = make(map[string][]time.Time)
}
