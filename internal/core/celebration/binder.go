package celebration

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/signal"
)

// Binder feeds a Store from the achievement engine.
type Binder struct {
	store    *Store
	listener ipc.Listener
	invoker  ipc.Invoker
	executor ipc.Executor
	scope    *signal.Scope

	mu     sync.Mutex
	closed bool
}

// NewBinder wires store to the transport.
func NewBinder(store *Store, listener ipc.Listener, invoker ipc.Invoker, executor ipc.Executor) *Binder {
	return &Binder{
		store:    store,
		listener: listener,
		invoker:  invoker,
		executor: executor,
		scope:    &signal.Scope{},
	}
}

// Mount listens for unlocks and streak updates and loads the gallery.
func (binder *Binder) Mount(ctx context.Context) error {
	if binder.isClosed() {
		return fmt.Errorf("mount celebration binder: already closed")
	}

	unlockSub, err := binder.listener.Listen(ipc.EventAchievementUnlocked, binder.handleUnlocked)
	if err != nil {
		log.Printf("celebration: listen %s: %v", ipc.EventAchievementUnlocked, err)
		return fmt.Errorf("mount celebration binder: %w", err)
	}
	binder.scope.Add(unlockSub)

	streakSub, err := binder.listener.Listen(ipc.EventStreakUpdated, func(ipc.Event) {
		if binder.isClosed() {
			return
		}
		go binder.Refresh(ctx)
	})
	if err != nil {
		log.Printf("celebration: listen %s: %v", ipc.EventStreakUpdated, err)
		return fmt.Errorf("mount celebration binder: %w", err)
	}
	binder.scope.Add(streakSub)

	binder.Refresh(ctx)
	return nil
}

// Refresh reloads the gallery cache and the session count. Failures
// leave the cache as it was.
func (binder *Binder) Refresh(ctx context.Context) {
	binder.post(func() { binder.store.SetLoading(true) })
	defer binder.post(func() { binder.store.SetLoading(false) })

	var achievements []model.AchievementWithStatus
	if err := binder.invoker.Invoke(ctx, ipc.CommandGetAchievements, &achievements); err != nil {
		log.Printf("celebration: load achievements: %v", err)
		return
	}
	var total int
	if err := binder.invoker.Invoke(ctx, ipc.CommandGetTotalSessions, &total); err != nil {
		log.Printf("celebration: load total sessions: %v", err)
		return
	}

	binder.post(func() {
		binder.store.SetAchievements(achievements)
		binder.store.SetTotalSessions(total)
	})
}

// Close releases the subscriptions.
func (binder *Binder) Close() error {
	binder.mu.Lock()
	if binder.closed {
		binder.mu.Unlock()
		return nil
	}
	binder.closed = true
	binder.mu.Unlock()
	return binder.scope.Close()
}

func (binder *Binder) handleUnlocked(event ipc.Event) {
	if binder.isClosed() {
		return
	}
	item, err := ipc.Decode[model.CelebrationItem](event)
	if err != nil {
		log.Printf("celebration: %v", err)
		return
	}
	if item.ID == "" {
		log.Printf("celebration: unlock without id dropped")
		return
	}
	if !binder.store.Enqueue(item) {
		log.Printf("celebration: duplicate unlock %s skipped", item.ID)
	}
}

func (binder *Binder) post(task func()) {
	binder.executor.Post(func() {
		if binder.isClosed() {
			return
		}
		task()
	})
}

func (binder *Binder) isClosed() bool {
	binder.mu.Lock()
	defer binder.mu.Unlock()
	return binder.closed
}
