package events

import (
	"context"
	"sync"

	"works_uploader/platform/logger"
)

// Wildcard subscribes a handler to every event name.
const Wildcard = "*"

// InMemoryBus dispatches events synchronously to in-process handlers.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	if log == nil {
		log = logger.Discard()
	}
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for eventName.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish runs every handler registered for the event and for the wildcard.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	named := b.handlers[event.EventName()]
	wildcard := b.handlers[Wildcard]
	handlers := make([]Handler, 0, len(named)+len(wildcard))
	handlers = append(handlers, named...)
	handlers = append(handlers, wildcard...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			b.log.WithContext(ctx).Warn("event handler failed", "event", event.EventName(), "error", err)
		}
	}
}

// NopBus discards every event.
type NopBus struct{}

// Publish does nothing.
func (NopBus) Publish(context.Context, Event) {}

// Subscribe does nothing.
func (NopBus) Subscribe(string, Handler) {}
