package timer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/signal"
)

// Reconciler keeps a Store with the authoritative engine. Inbound events
// and command side effects all run on the executor.
type Reconciler struct {
	store    *Store
	listener ipc.Listener
	invoker  ipc.Invoker
	executor ipc.Executor
	scope    *signal.Scope

	mu      sync.Mutex
	closed  bool
	fenced  bool
	mounted bool
}

// NewReconciler wires store to the transport.
func NewReconciler(store *Store, listener ipc.Listener, invoker ipc.Invoker, executor ipc.Executor) *Reconciler {
	return &Reconciler{
		store:    store,
		listener: listener,
		invoker:  invoker,
		executor: executor,
		scope:    &signal.Scope{},
	}
}

// Mount subscribes to tick and completion events and adopts the
// engine's current state. A failed fetch keeps the defaults. A failed
// subscription is returned since nothing retries it.
func (reconciler *Reconciler) Mount(ctx context.Context) error {
	reconciler.mu.Lock()
	if reconciler.closed {
		reconciler.mu.Unlock()
		return fmt.Errorf("mount timer sync: already closed")
	}
	if reconciler.mounted {
		reconciler.mu.Unlock()
		return nil
	}
	reconciler.mounted = true
	reconciler.mu.Unlock()

	tickSub, err := reconciler.listener.Listen(ipc.EventTimerTick, reconciler.handleTick)
	if err != nil {
		log.Printf("timer sync: listen %s: %v", ipc.EventTimerTick, err)
		return fmt.Errorf("mount timer sync: %w", err)
	}
	reconciler.scope.Add(tickSub)

	completeSub, err := reconciler.listener.Listen(ipc.EventSessionComplete, reconciler.handleComplete)
	if err != nil {
		log.Printf("timer sync: listen %s: %v", ipc.EventSessionComplete, err)
		return fmt.Errorf("mount timer sync: %w", err)
	}
	reconciler.scope.Add(completeSub)

	var state model.TimerSnapshot
	if err := reconciler.invoker.Invoke(ctx, ipc.CommandGetTimerState, &state); err != nil {
		log.Printf("timer sync: get timer state: %v", err)
		return nil
	}
	reconciler.post(func() {
		reconciler.fenced = false
		reconciler.store.Adopt(state)
	})
	return nil
}

// Start asks the engine to begin a focus session.
func (reconciler *Reconciler) Start(ctx context.Context) {
	reconciler.post(func() {
		reconciler.fenced = false
	})
	reconciler.send(ctx, ipc.CommandStartTimer)
}

// Pause asks the engine to pause.
func (reconciler *Reconciler) Pause(ctx context.Context) {
	reconciler.send(ctx, ipc.CommandPauseTimer)
}

// Resume asks the engine to resume.
func (reconciler *Reconciler) Resume(ctx context.Context) {
	reconciler.send(ctx, ipc.CommandResumeTimer)
}

// Stop resets the store right away and then tells the engine. Ticks
// that were already in flight cannot bring the timer back.
func (reconciler *Reconciler) Stop(ctx context.Context) {
	reconciler.post(func() {
		reconciler.fenced = true
		reconciler.store.Reset()
	})
	reconciler.send(ctx, ipc.CommandStopTimer)
}

// Close releases the event subscriptions. Events already queued on the
// executor become no-ops.
func (reconciler *Reconciler) Close() error {
	reconciler.mu.Lock()
	if reconciler.closed {
		reconciler.mu.Unlock()
		return nil
	}
	reconciler.closed = true
	reconciler.mu.Unlock()
	return reconciler.scope.Close()
}

func (reconciler *Reconciler) handleTick(event ipc.Event) {
	if reconciler.isClosed() {
		return
	}
	payload, err := ipc.Decode[model.TickPayload](event)
	if err != nil {
		log.Printf("timer sync: %v", err)
		return
	}
	if _, err := model.ParseTimerStatus(string(payload.Status)); err != nil {
		log.Printf("timer sync: tick: %v", err)
		return
	}
	if reconciler.fenced {
		if payload.Status != model.StatusIdle {
			return
		}
		reconciler.fenced = false
	}
	reconciler.store.Adopt(payload.Snapshot())
}

func (reconciler *Reconciler) handleComplete(event ipc.Event) {
	if reconciler.isClosed() {
		return
	}
	payload, err := ipc.Decode[model.SessionCompletePayload](event)
	if err != nil {
		log.Printf("timer sync: %v", err)
		return
	}
	// Focus completion is followed by break ticks from the engine;
	// resetting here would flash idle before they arrive.
	if payload.SessionType != model.SessionBreak {
		return
	}
	reconciler.store.Reset()
}

func (reconciler *Reconciler) send(ctx context.Context, command string) {
	if err := reconciler.invoker.Invoke(ctx, command, nil); err != nil {
		log.Printf("timer sync: %s: %v", command, err)
	}
}

func (reconciler *Reconciler) post(task func()) {
	reconciler.executor.Post(func() {
		if reconciler.isClosed() {
			return
		}
		task()
	})
}

func (reconciler *Reconciler) isClosed() bool {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return reconciler.closed
}
