// Package presentation drives the on-screen lifecycle of celebrations,
// one at a time, from the celebration queue.
package presentation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/core/clock"
	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/signal"
)

// State is the controller phase.
type State int

const (
	StateIdle State = iota
	StateEntering
	StateVisible
	StateExiting
	StateCooldown
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateEntering:
		return "entering"
	case StateVisible:
		return "visible"
	case StateExiting:
		return "exiting"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Queue is the part of the celebration store the controller drives.
type Queue interface {
	Head() (celebration.Entry, bool)
	DequeueKey(key uuid.UUID) bool
	MarkViewed(id string)
	Subscribe(fn func()) *signal.Subscription
}

// View is what the overlay renders.
type View struct {
	State         State
	Entry         celebration.Entry
	HasItem       bool
	Tier          TierConfig
	ShowParticles bool
}

// Visible reports whether the celebration is fully shown and interactive.
func (view View) Visible() bool {
	return view.State == StateVisible
}

type message interface{}

type queueChanged struct{}

type dismissRequested struct{}

type timerElapsed struct {
	generation uint64
}

// Controller is the celebration state machine. Every transition is a
// message handled on the executor, whether it comes from the queue, a
// timer or the user.
type Controller struct {
	queue    Queue
	clock    clock.Clock
	executor ipc.Executor

	mu         sync.Mutex
	config     Config
	state      State
	current    celebration.Entry
	hasCurrent bool
	timer      clock.Timer
	generation uint64
	started    bool
	closed     bool
	queueSub   *signal.Subscription

	views signal.Notifier[View]
}

// New creates a controller. Call Start to begin draining the queue.
func New(queue Queue, clk clock.Clock, executor ipc.Executor, config Config) *Controller {
	if config.Tiers == nil {
		config.Tiers = DefaultConfig().Tiers
	}
	return &Controller{
		queue:    queue,
		clock:    clk,
		executor: executor,
		config:   config,
		state:    StateIdle,
	}
}

// Start subscribes to the queue and shows the head, if any.
func (controller *Controller) Start() {
	controller.mu.Lock()
	if controller.started || controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.started = true
	controller.mu.Unlock()

	sub := controller.queue.Subscribe(func() {
		controller.send(queueChanged{})
	})

	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		_ = sub.Release()
		return
	}
	controller.queueSub = sub
	controller.mu.Unlock()

	controller.send(queueChanged{})
}

// Dismiss asks to close the current celebration. It does nothing when
// nothing is shown or the celebration is already leaving.
func (controller *Controller) Dismiss() {
	controller.send(dismissRequested{})
}

// SetReducedMotion toggles particle effects. Timings are unaffected.
func (controller *Controller) SetReducedMotion(reduced bool) {
	controller.mu.Lock()
	changed := controller.config.ReducedMotion != reduced
	controller.config.ReducedMotion = reduced
	view := controller.viewLocked()
	controller.mu.Unlock()
	if changed {
		controller.views.Notify(view)
	}
}

// State returns the current phase.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// View returns the current render state.
func (controller *Controller) View() View {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.viewLocked()
}

// Subscribe is notified after every transition.
func (controller *Controller) Subscribe(fn func(View)) *signal.Subscription {
	return controller.views.Subscribe(fn)
}

// Close cancels the pending timer and detaches from the queue. Timers or
// messages that arrive afterwards are ignored.
func (controller *Controller) Close() error {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return nil
	}
	controller.closed = true
	controller.stopTimerLocked()
	sub := controller.queueSub
	controller.queueSub = nil
	controller.mu.Unlock()

	if sub != nil {
		return sub.Release()
	}
	return nil
}

func (controller *Controller) send(msg message) {
	controller.executor.Post(func() {
		controller.handle(msg)
	})
}

func (controller *Controller) handle(msg message) {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}

	var effects []func()
	switch msg := msg.(type) {
	case queueChanged:
		if controller.state == StateIdle {
			controller.enterLocked()
		}
	case dismissRequested:
		effects = controller.dismissLocked()
	case timerElapsed:
		if msg.generation != controller.generation {
			controller.mu.Unlock()
			return
		}
		controller.timer = nil
		effects = controller.elapsedLocked()
	}

	view := controller.viewLocked()
	controller.mu.Unlock()

	// Queue calls notify the controller back, so they run unlocked.
	for _, effect := range effects {
		effect()
	}
	controller.views.Notify(view)
}

func (controller *Controller) enterLocked() {
	head, ok := controller.queue.Head()
	if !ok {
		controller.state = StateIdle
		controller.hasCurrent = false
		return
	}
	controller.current = head
	controller.hasCurrent = true
	controller.state = StateEntering
	controller.scheduleLocked(controller.config.EntranceDelay)
}

// dismissLocked is the single dismissal routine for user and automatic
// dismissal.
func (controller *Controller) dismissLocked() []func() {
	if !controller.hasCurrent {
		return nil
	}
	if controller.state != StateEntering && controller.state != StateVisible {
		return nil
	}
	id := controller.current.Item.ID
	controller.state = StateExiting
	controller.scheduleLocked(controller.config.ExitDuration)
	return []func(){func() { controller.queue.MarkViewed(id) }}
}

func (controller *Controller) elapsedLocked() []func() {
	switch controller.state {
	case StateEntering:
		controller.state = StateVisible
		duration := controller.config.Tier(controller.current.Item.Tier).Duration
		controller.scheduleLocked(duration)
	case StateVisible:
		return controller.dismissLocked()
	case StateExiting:
		key := controller.current.Key
		controller.hasCurrent = false
		controller.current = celebration.Entry{}
		controller.state = StateCooldown
		controller.scheduleLocked(controller.config.QueueDelay)
		return []func(){func() { controller.queue.DequeueKey(key) }}
	case StateCooldown:
		controller.state = StateIdle
		controller.enterLocked()
	}
	return nil
}

func (controller *Controller) scheduleLocked(delay time.Duration) {
	controller.stopTimerLocked()
	controller.generation++
	generation := controller.generation
	controller.timer = controller.clock.AfterFunc(delay, func() {
		controller.send(timerElapsed{generation: generation})
	})
}

func (controller *Controller) stopTimerLocked() {
	if controller.timer != nil {
		controller.timer.Stop()
		controller.timer = nil
	}
	controller.generation++
}

func (controller *Controller) viewLocked() View {
	view := View{
		State:   controller.state,
		Entry:   controller.current,
		HasItem: controller.hasCurrent,
	}
	if controller.hasCurrent {
		view.Tier = controller.config.Tier(controller.current.Item.Tier)
	}
	view.ShowParticles = view.HasItem && controller.state == StateVisible && !controller.config.ReducedMotion
	return view
}
