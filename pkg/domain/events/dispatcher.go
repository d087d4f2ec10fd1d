package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandlerFunc is a function that handles a domain event.
type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

type namedHandler struct {
	name    string
	handler EventHandlerFunc
}

// EventDispatcher dispatches domain events to registered handlers.
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
}

// NewEventDispatcher creates an empty dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{handlers: make(map[string][]namedHandler)}
}

// RegisterHandler registers a handler for the given event types. "*" matches all.
func (d *EventDispatcher) RegisterHandler(name string, handler EventHandlerFunc, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range eventTypes {
		d.handlers[t] = append(d.handlers[t], namedHandler{name: name, handler: handler})
	}
}

// RegisterWildcard registers a handler for every event.
func (d *EventDispatcher) RegisterWildcard(name string, handler EventHandlerFunc) {
	d.RegisterHandler(name, handler, "*")
}

// HasHandlers reports whether an event type would reach any handler.
func (d *EventDispatcher) HasHandlers(eventType string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType]) > 0 || len(d.handlers["*"]) > 0
}

// Dispatch runs every matching handler. All handlers run even when one fails; the
// failures are joined into the returned error.
func (d *EventDispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	handlers := append([]namedHandler{}, d.handlers[event.EventType()]...)
	handlers = append(handlers, d.handlers["*"]...)
	d.mu.RUnlock()

	var errs []error
	for _, nh := range handlers {
		if err := nh.handler(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s failed for event %s: %w", nh.name, event.EventType(), err))
		}
	}
	return errors.Join(errs...)
}
