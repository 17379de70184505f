// Package events carries upload lifecycle notifications from the pipeline to
// whoever watches a run. Publishing never fails.
package events

import (
	"context"
	"time"
)

// Event is one lifecycle notification. EventName is the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent stamps an event with the time it was raised. Embed it.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt implements Event.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps the event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler observes events. A returned error is logged by the bus.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a closure observe events.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to subscribers.
//
// Publish calls the handlers subscribed to event.EventName() and then the
// Wildcard handlers, inline and in subscription order, on the caller's
// goroutine. Handler errors stay inside the bus.
//
// Subscribe adds a handler for one event name, or for every event when
// eventName is Wildcard.
type Bus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventName string, handler Handler)
}
