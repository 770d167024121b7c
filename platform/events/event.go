// Package events provides the event bus infrastructure that lets workshop
// modules react to each other (enquiry received, quote converted, invoice
// issued) without importing each other. Event definitions live with the
// domain code in internal/events.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName returns a unique identifier for the event type.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Bus publishes domain events to subscribed handlers. Services hold this
// interface so tests can substitute a recording bus.
type Bus interface {
	// Publish sends an event to all handlers registered for its name.
	// Dispatch is asynchronous; publishers never block on handlers.
	Publish(ctx context.Context, event Event)

	// Subscribe registers a handler for events whose EventName matches.
	Subscribe(eventName string, handler Handler)
}
