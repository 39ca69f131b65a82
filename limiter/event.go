package limiter

import (
	"sync"
	"time"
)

// Event Type
type EventType string

const (
	// EventAdmitted admission granted
	EventAdmitted EventType = "admitted"

	// EventThrottled caller started waiting for capacity
	EventThrottled EventType = "throttled"

	// EventReset window reset fired
	EventReset EventType = "reset"

	// EventClosed limiter shut down
	EventClosed EventType = "closed"
)

// Event limiter state change notification
type Event struct {
	Type EventType

	// Remaining window budget after the event
	Remaining int64

	At time.Time
}

// EventListener event callback
type EventListener func(Event)

// EventBus buffered asynchronous event dispatch.
// Publishing never blocks the admission path: events are dropped when the
// buffer is full.
type EventBus struct {
	mu        sync.RWMutex
	listeners []EventListener
	eventChan chan Event
	closed    bool
	wg        sync.WaitGroup
}

// NewEventBus creates an event bus with the given buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	bus := &EventBus{
		eventChan: make(chan Event, bufferSize),
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

// Subscribe registers a listener for all subsequent events
func (b *EventBus) Subscribe(listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.listeners = append(b.listeners, listener)
}

// publish enqueues an event, dropping it when the buffer is full
func (b *EventBus) publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- event:
	default:
		// buffer full, drop
	}
}

// dispatch fans events out to listeners
func (b *EventBus) dispatch() {
	defer b.wg.Done()

	for event := range b.eventChan {
		b.mu.RLock()
		listeners := make([]EventListener, len(b.listeners))
		copy(listeners, b.listeners)
		b.mu.RUnlock()

		for _, listener := range listeners {
			listener(event)
		}
	}
}

// Close stops dispatching and waits for in-flight deliveries
func (b *EventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.eventChan)
	b.mu.Unlock()

	b.wg.Wait()
}
