package events

import (
	"context"
	"errors"
	"sync"

	"commute_backend/platform/logger"
)

type delivery struct {
	ctx      context.Context
	event    Event
	handlers []Handler
}

// InMemoryBus dispatches events to handlers registered in the same process.
// Asynchronous deliveries are handled one at a time in publish order, so a
// subscriber never sees a later event before an earlier one.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger

	qmu      sync.Mutex
	queue    []delivery
	draining bool
	wg       sync.WaitGroup
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
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

func (b *InMemoryBus) snapshot(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	handlers := make([]Handler, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	return handlers
}

// Publish queues the event and returns. Handlers run on the bus's drain
// goroutine with a context detached from the caller's cancellation. Handler
// errors are logged.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	handlers := b.snapshot(event.EventName())
	if len(handlers) == 0 {
		return
	}

	b.wg.Add(1)
	b.qmu.Lock()
	b.queue = append(b.queue, delivery{ctx: context.WithoutCancel(ctx), event: event, handlers: handlers})
	start := !b.draining
	b.draining = true
	b.qmu.Unlock()

	if start {
		go b.drain()
	}
}

// drain delivers queued events until the queue is empty.
func (b *InMemoryBus) drain() {
	for {
		b.qmu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.qmu.Unlock()
			return
		}
		d := b.queue[0]
		b.queue[0] = delivery{}
		b.queue = b.queue[1:]
		b.qmu.Unlock()

		for _, h := range d.handlers {
			if err := h.Handle(d.ctx, d.event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", d.event.EventName(), "error", err)
			}
		}
		b.wg.Done()
	}
}

// PublishSync runs handlers in registration order and joins their errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, h := range b.snapshot(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until all asynchronously published handlers have returned.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}

var _ Bus = (*InMemoryBus)(nil)
