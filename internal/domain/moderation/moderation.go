package moderation

import (
	"time"

	"github.com/citystory/placesearch/internal/domain"
)

// Status is the publication state of a content item.
type Status string

// Publication states. Only approved content is publicly searchable.
const (
	Draft    Status = "draft"
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == Draft || s == Pending || s == Approved || s == Rejected
}

// transitions lists the legal status changes.
var transitions = map[Status][]Status{
	Draft:    {Pending},
	Pending:  {Approved, Rejected},
	Approved: {Rejected},
	Rejected: {Pending},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates a status change.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Moderatable is implemented by every content kind that passes through moderation.
type Moderatable interface {
	Status() Status
	ModeratedAt() time.Time
	Moderator() string
}
