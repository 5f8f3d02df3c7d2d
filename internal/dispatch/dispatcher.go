package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kicklive/internal/events"
	"kicklive/internal/metrics"
)

// Handler receives decoded events for one category. Handlers run on the
// realtime read goroutine and must return quickly to avoid backpressure on
// the inbound stream.
type Handler func(ev events.Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	id       uuid.UUID
	category events.Category
}

// Category returns the event category this subscription listens on.
func (s Subscription) Category() events.Category { return s.category }

type registration struct {
	id      uuid.UUID
	handler Handler
}

// Dispatcher fans decoded events out to subscribers per category. Handler
// lists are copied on every dispatch, so subscribing or unsubscribing from
// inside a handler never corrupts an in-flight delivery.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[events.Category][]registration
	logger   zerolog.Logger
}

// New creates a dispatcher whose handler failures are reported through the
// given logger.
func New(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[events.Category][]registration),
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Subscribe registers a handler for a category and returns a handle for
// later removal. Handlers fire in registration order.
func (d *Dispatcher) Subscribe(category events.Category, h Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub := Subscription{id: uuid.New(), category: category}
	d.handlers[category] = append(d.handlers[category], registration{id: sub.id, handler: h})
	return sub
}

// Unsubscribe removes a previously registered handler. Removing an already
// removed subscription is a no-op.
func (d *Dispatcher) Unsubscribe(sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	regs := d.handlers[sub.category]
	for i, r := range regs {
		if r.id == sub.id {
			d.handlers[sub.category] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers an event to every handler currently registered for its
// category. A panicking handler is isolated: the panic is logged and counted
// and the remaining handlers still run. An empty category, including the
// unknown category, is not an error.
func (d *Dispatcher) Dispatch(ev events.Event) {
	d.mu.RLock()
	regs := d.handlers[ev.Category]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	d.mu.RUnlock()

	metrics.EventsDecoded.WithLabelValues(string(ev.Category)).Inc()

	for _, r := range snapshot {
		d.invoke(r, ev)
	}
}

// SubscriberCount reports how many handlers are registered for a category.
func (d *Dispatcher) SubscriberCount(category events.Category) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[category])
}

func (d *Dispatcher) invoke(r registration, ev events.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.HandlerPanics.WithLabelValues(string(ev.Category)).Inc()
			d.logger.Error().
				Str("category", string(ev.Category)).
				Str("event", ev.Name).
				Err(fmt.Errorf("handler panic: %v", rec)).
				Msg("subscriber handler failed")
		}
	}()
	r.handler(ev)
}
