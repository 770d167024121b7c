package events

import (
	"context"
	"fmt"
	"sync"

	"garage_crm_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Handlers for an event run in
// registration order; Publish runs them on a separate goroutine so the
// publishing request never blocks on notification work.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event asynchronously. Handler errors and panics are
// logged and never propagate to the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	handlers := b.handlersFor(event.EventName())
	if len(handlers) == 0 {
		return
	}

	// Detach from the request context so in-flight handlers survive the
	// originating HTTP request.
	go func() {
		for _, h := range handlers {
			b.dispatch(context.WithoutCancel(ctx), event, h)
		}
	}()
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	out := make([]Handler, len(registered))
	copy(out, registered)
	return out
}

func (b *InMemoryBus) dispatch(ctx context.Context, event Event, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
			if b.log != nil {
				b.log.Error("event_handler_panic", "event", event.EventName(), "panic", fmt.Sprint(r))
			}
		}
	}()

	if err := h.Handle(ctx, event); err != nil {
		if b.log != nil {
			b.log.Error("event_handler_error", "event", event.EventName(), "error", err.Error())
		}
		return err
	}
	return nil
}
