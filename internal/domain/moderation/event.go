package moderation

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a moderation state transition.
type EventType string

// Moderation event types.
const (
	EventSubmitted EventType = "submitted"
	EventApproved  EventType = "approved"
	EventRejected  EventType = "rejected"
	EventUpdated   EventType = "updated"
)

// Event is published on every moderation state transition or visible-content edit.
// Subscribers (cache invalidation, awards, notifications) consume it independently.
type Event struct {
	ID        string
	Type      EventType
	PlaceID   string
	OwnerID   string
	Moderator string
	From      Status
	To        Status
	At        time.Time
}

// NewEvent creates a moderation event with a fresh id and timestamp.
func NewEvent(t EventType, placeID, ownerID, moderator string, from, to Status) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		PlaceID:   placeID,
		OwnerID:   ownerID,
		Moderator: moderator,
		From:      from,
		To:        to,
		At:        time.Now().UTC(),
	}
}
