// Package moderation drives the place publication workflow and publishes the
// events that downstream consumers (query cache, awards) react to.
package moderation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/domain/moderation"
	"github.com/citystory/placesearch/internal/domain/place"
)

// PlaceStore is the persistence the workflow needs.
type PlaceStore interface {
	Get(ctx context.Context, id string) (place.Place, error)
	Put(ctx context.Context, p *place.Place) error
}

// Publisher delivers moderation events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev moderation.Event)
}

// Service applies moderation decisions to places.
type Service struct {
	store PlaceStore
	bus   Publisher
	log   *zap.Logger
	now   func() time.Time
}

// New creates a moderation service.
func New(store PlaceStore, bus Publisher, log *zap.Logger) *Service {
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

// Submit moves a draft place into the review queue.
func (s *Service) Submit(ctx context.Context, placeID string) (place.Place, error) {
	return s.transition(ctx, placeID, moderation.Pending, "", moderation.EventSubmitted)
}

// Approve publishes a pending place. Approved places become visible to
// everyone and stale cached result pages are flushed via the event.
func (s *Service) Approve(ctx context.Context, placeID, moderatorID string) (place.Place, error) {
	return s.transition(ctx, placeID, moderation.Approved, moderatorID, moderation.EventApproved)
}

// Reject removes a place from, or keeps it out of, public results.
func (s *Service) Reject(ctx context.Context, placeID, moderatorID string) (place.Place, error) {
	return s.transition(ctx, placeID, moderation.Rejected, moderatorID, moderation.EventRejected)
}

// NotifyUpdated publishes an update event for an already-visible place whose
// content changed, without touching its status.
func (s *Service) NotifyUpdated(ctx context.Context, placeID string) error {
	p, err := s.store.Get(ctx, placeID)
	if err != nil {
		return fmt.Errorf("load place %s: %w", placeID, err)
	}
	s.bus.Publish(ctx, moderation.NewEvent(
		moderation.EventUpdated, p.ID(), p.OwnerID(), "", p.Status(), p.Status(),
	))
	return nil
}

func (s *Service) transition(ctx context.Context, placeID string, to moderation.Status, moderatorID string, evType moderation.EventType) (place.Place, error) {
	p, err := s.store.Get(ctx, placeID)
	if err != nil {
		return place.Place{}, fmt.Errorf("load place %s: %w", placeID, err)
	}

	from := p.Status()
	updated, err := p.WithStatus(to, moderatorID, s.now().UTC())
	if err != nil {
		return place.Place{}, err
	}

	if err := s.store.Put(ctx, &updated); err != nil {
		return place.Place{}, fmt.Errorf("persist place %s: %w", placeID, err)
	}

	s.log.Info("moderation transition",
		zap.String("place_id", placeID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("moderator", moderatorID),
	)
	s.bus.Publish(ctx, moderation.NewEvent(evType, updated.ID(), updated.OwnerID(), moderatorID, from, to))
	return updated, nil
}
