// Package timer holds the client's belief about the authoritative timer
// and keeps it reconciled with the engine's events.
package timer

import (
	"sync"

	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/signal"
)

// Store is the single source of truth for what the timer is doing.
// Reads are safe from any goroutine. Writes come only from Sync.
type Store struct {
	mu       sync.RWMutex
	snapshot model.TimerSnapshot
	changes  signal.Notifier[model.TimerSnapshot]
}

// NewStore returns a store in the idle state.
func NewStore() *Store {
	return &Store{snapshot: model.IdleSnapshot()}
}

// Snapshot returns both fields as one consistent value.
func (store *Store) Snapshot() model.TimerSnapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot
}

func (store *Store) Status() model.TimerStatus {
	return store.Snapshot().Status
}

func (store *Store) RemainingSeconds() int {
	return store.Snapshot().RemainingSeconds
}

func (store *Store) IsFocus() bool   { return store.Status().IsFocus() }
func (store *Store) IsBreak() bool   { return store.Status().IsBreak() }
func (store *Store) IsActive() bool  { return store.Status().IsActive() }
func (store *Store) IsRunning() bool { return store.Status().IsRunning() }

// SetStatus overwrites the status.
func (store *Store) SetStatus(status model.TimerStatus) {
	store.update(func(snapshot *model.TimerSnapshot) {
		snapshot.Status = status
	})
}

// SetRemainingSeconds overwrites the remaining time, clamped at zero.
func (store *Store) SetRemainingSeconds(seconds int) {
	store.update(func(snapshot *model.TimerSnapshot) {
		snapshot.RemainingSeconds = max(0, seconds)
	})
}

// Tick decrements the remaining time by one second, never below zero.
func (store *Store) Tick() {
	store.update(func(snapshot *model.TimerSnapshot) {
		snapshot.RemainingSeconds = max(0, snapshot.RemainingSeconds-1)
	})
}

// Reset sets {idle, 0}. Subscribers observe both fields change together.
func (store *Store) Reset() {
	store.Adopt(model.IdleSnapshot())
}

// Adopt replaces the whole snapshot.
func (store *Store) Adopt(next model.TimerSnapshot) {
	next = next.Clamped()
	store.update(func(snapshot *model.TimerSnapshot) {
		*snapshot = next
	})
}

// Subscribe is notified with the new snapshot after every change.
func (store *Store) Subscribe(fn func(model.TimerSnapshot)) *signal.Subscription {
	return store.changes.Subscribe(fn)
}

func (store *Store) update(mutate func(*model.TimerSnapshot)) {
	store.mu.Lock()
	before := store.snapshot
	mutate(&store.snapshot)
	after := store.snapshot
	store.mu.Unlock()

	if after != before {
		store.changes.Notify(after)
	}
}
