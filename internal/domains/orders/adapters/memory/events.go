package memory

import (
	"context"
	"sync"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*EventRecorder)(nil)

// EventRecorder keeps published events in memory when no broker is configured.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) Publish(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *EventRecorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event{}, r.events...)
}

// Names lists the event names in publish order.
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.EventName())
	}
	return names
}
