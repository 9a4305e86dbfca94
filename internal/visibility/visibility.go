// Package visibility computes the effective display state of posts: temporal
// pin status and anonymous-author redaction.
package visibility

import (
	"time"

	"campusfeed/internal/models"
)

// PinOrderSQL is the SQL rendering of EffectivePin, used to sort
// effectively-pinned posts first. It takes one bound parameter, the current
// time. Keep it in sync with EffectivePin.
const PinOrderSQL = "CASE WHEN is_pinned AND (pinned_until IS NULL OR pinned_until > ?) THEN 1 ELSE 0 END DESC, created_at DESC"

// EffectivePin reports whether the post sorts as pinned at the given instant.
// An expired pin only affects ordering; the stored flags are cleared by an
// explicit unpin, never here.
func EffectivePin(p *models.Post, now time.Time) bool {
	if !p.IsPinned {
		return false
	}
	return p.PinnedUntil == nil || p.PinnedUntil.After(now)
}

// MarkEffectivePin stamps the computed pin state onto the post representation.
func MarkEffectivePin(p *models.Post, now time.Time) {
	p.EffectivePin = EffectivePin(p, now)
}

// MarkEffectivePins applies MarkEffectivePin over a list read.
func MarkEffectivePins(posts []*models.Post, now time.Time) {
	for _, p := range posts {
		MarkEffectivePin(p, now)
	}
}

// PinExpiry maps a pin duration code to its expiry timestamp. A nil result
// means the pin does not expire. Unknown codes are a validation error.
func PinExpiry(code string, now time.Time) (*time.Time, error) {
	var until time.Time
	switch code {
	case models.PinDuration24h:
		until = now.Add(24 * time.Hour)
	case models.PinDuration7d:
		until = now.Add(7 * 24 * time.Hour)
	case models.PinDuration30d:
		until = now.Add(30 * 24 * time.Hour)
	case models.PinDurationInfinite, "":
		return nil, nil
	default:
		return nil, models.NewValidationError("Invalid pin duration. Use 24h, 7d, 30d, or infinite")
	}
	return &until, nil
}

// RedactAuthor clears the author identity of an anonymous post unless the
// viewer is an admin. Applied uniformly to single-item and list reads.
func RedactAuthor(p *models.Post, viewer *models.User) {
	if !p.IsAnonymous {
		return
	}
	if viewer != nil && viewer.IsAdmin() {
		return
	}
	p.Author = nil
	p.AuthorID = nil
}

// RedactAuthors applies RedactAuthor over a list read.
func RedactAuthors(posts []*models.Post, viewer *models.User) {
	for _, p := range posts {
		RedactAuthor(p, viewer)
	}
}
