// Package events carries state changes between modules without the publisher
// knowing who listens. The commute service publishes, notification pushes.
package events

import (
	"context"
	"time"
)

// Event is a named fact with the time it happened.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events for the timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one delivered event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to subscribers by event name.
type Bus interface {
	// Publish queues event for every subscriber and returns without waiting.
	// Subscribers see queued events in publish order.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers event on the caller's goroutine and joins the
	// subscribers' errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}

// SubscribeAll registers handler for every event in events, by name.
func SubscribeAll(bus Bus, handler Handler, events ...Event) {
	for _, e := range events {
		bus.Subscribe(e.EventName(), handler)
	}
}
