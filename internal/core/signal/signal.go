// Package signal provides subscription handles and the observer lists
// shared by the stores and the event bus.
package signal

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrReleased is returned when a subscription is released twice.
var ErrReleased = errors.New("subscription already released")

// Subscription is the capability returned by every subscribe call.
// It must be released exactly once.
type Subscription struct {
	released atomic.Bool
	release  func()
}

// NewSubscription wraps a detach function.
func NewSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Release detaches the listener. Later calls return ErrReleased.
func (sub *Subscription) Release() error {
	if sub == nil {
		return ErrReleased
	}
	if !sub.released.CompareAndSwap(false, true) {
		return ErrReleased
	}
	if sub.release != nil {
		sub.release()
	}
	return nil
}

// Active reports whether the subscription has not been released yet.
func (sub *Subscription) Active() bool {
	return sub != nil && !sub.released.Load()
}

// Scope collects subscriptions so they are torn down together.
type Scope struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// Add takes ownership of sub. A closed scope releases it right away.
func (scope *Scope) Add(sub *Subscription) {
	if sub == nil {
		return
	}
	scope.mu.Lock()
	if scope.closed {
		scope.mu.Unlock()
		_ = sub.Release()
		return
	}
	scope.subs = append(scope.subs, sub)
	scope.mu.Unlock()
}

// Len returns the number of subscriptions held.
func (scope *Scope) Len() int {
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return len(scope.subs)
}

// Closed reports whether Close has run.
func (scope *Scope) Closed() bool {
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return scope.closed
}

// Close releases every subscription in reverse order of acquisition.
func (scope *Scope) Close() error {
	scope.mu.Lock()
	if scope.closed {
		scope.mu.Unlock()
		return nil
	}
	scope.closed = true
	subs := scope.subs
	scope.subs = nil
	scope.mu.Unlock()

	var errs []error
	for i := len(subs) - 1; i >= 0; i-- {
		if err := subs[i].Release(); err != nil && !errors.Is(err, ErrReleased) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notifier is a subscribe/notify list. Listeners run in subscription
// order on the goroutine that calls Notify.
type Notifier[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn until the returned subscription is released.
func (notifier *Notifier[T]) Subscribe(fn func(T)) *Subscription {
	notifier.mu.Lock()
	notifier.nextID++
	id := notifier.nextID
	notifier.listeners = append(notifier.listeners, listener[T]{id: id, fn: fn})
	notifier.mu.Unlock()

	return NewSubscription(func() {
		notifier.remove(id)
	})
}

// Notify calls every listener with value.
func (notifier *Notifier[T]) Notify(value T) {
	notifier.mu.Lock()
	listeners := append([]listener[T](nil), notifier.listeners...)
	notifier.mu.Unlock()

	for _, entry := range listeners {
		if entry.fn != nil {
			entry.fn(value)
		}
	}
}

// Len returns the number of attached listeners.
func (notifier *Notifier[T]) Len() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.listeners)
}

func (notifier *Notifier[T]) remove(id uint64) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	for i, entry := range notifier.listeners {
		if entry.id == id {
			notifier.listeners = append(notifier.listeners[:i], notifier.listeners[i+1:]...)
			return
		}
	}
}
