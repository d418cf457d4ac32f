package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cozyfocus/internal/core/signal"
)

// Bus is an in-process event transport. Deliveries are posted to an
// executor, so per event name handlers see events in emission order and
// never run concurrently with each other.
type Bus struct {
	mu       sync.Mutex
	executor Executor
	handlers map[string][]*busEntry
	closed   bool
}

type busEntry struct {
	handler Handler
	sub     *signal.Subscription
}

// NewBus creates a bus delivering on executor.
func NewBus(executor Executor) *Bus {
	return &Bus{
		executor: executor,
		handlers: make(map[string][]*busEntry),
	}
}

// Listen registers handler for name.
func (bus *Bus) Listen(name string, handler Handler) (*signal.Subscription, error) {
	if name == "" {
		return nil, errors.New("listen: event name is empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("listen %s: handler is nil", name)
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		return nil, fmt.Errorf("listen %s: %w", name, ErrBusClosed)
	}

	entry := &busEntry{handler: handler}
	entry.sub = signal.NewSubscription(func() {
		bus.remove(name, entry)
	})
	bus.handlers[name] = append(bus.handlers[name], entry)
	return entry.sub, nil
}

// Emit encodes payload and schedules delivery to every listener of name.
func (bus *Bus) Emit(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("emit %s: encode payload: %w", name, err)
	}

	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return fmt.Errorf("emit %s: %w", name, ErrBusClosed)
	}
	entries := append([]*busEntry(nil), bus.handlers[name]...)
	bus.mu.Unlock()

	event := Event{Name: name, Payload: raw}
	for _, entry := range entries {
		entry := entry
		bus.executor.Post(func() {
			if !entry.sub.Active() {
				return
			}
			entry.handler(event)
		})
	}
	return nil
}

// ListenerCount returns the number of handlers for name.
func (bus *Bus) ListenerCount(name string) int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.handlers[name])
}

// Close detaches every handler.
func (bus *Bus) Close() {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return
	}
	bus.closed = true
	var subs []*signal.Subscription
	for _, entries := range bus.handlers {
		for _, entry := range entries {
			subs = append(subs, entry.sub)
		}
	}
	bus.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Release()
	}
}

func (bus *Bus) remove(name string, target *busEntry) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	entries := bus.handlers[name]
	for i, entry := range entries {
		if entry == target {
			bus.handlers[name] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(bus.handlers[name]) == 0 {
		delete(bus.handlers, name)
	}
}
