// Package events provides the in-process moderation event bus that decouples
// the moderation workflow from its consumers (cache invalidation, awards).
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/domain/moderation"
)

// Handler consumes one moderation event.
type Handler func(ctx context.Context, ev moderation.Event) error

// Bus fans moderation events out to subscribers. Delivery is synchronous and
// in subscription order; a failing subscriber is logged and does not stop the
// others or the publishing workflow.
type Bus struct {
	log *zap.Logger

	mu       sync.RWMutex
	handlers []namedHandler
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewBus creates an event bus.
func NewBus(log *zap.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers a handler under a name used in failure logs.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, namedHandler{name: name, fn: h})
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(ctx context.Context, ev moderation.Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.fn(ctx, ev); err != nil {
			b.log.Error("event handler failed",
				zap.String("handler", h.name),
				zap.String("event_type", string(ev.Type)),
				zap.String("place_id", ev.PlaceID),
				zap.Error(err),
			)
		}
	}
}
