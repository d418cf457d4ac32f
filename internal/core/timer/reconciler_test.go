package timer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
)

type fakeEngine struct {
	mu       sync.Mutex
	state    model.TimerSnapshot
	stateErr error
	sendErr  error
	commands []string
}

func (engine *fakeEngine) Invoke(ctx context.Context, command string, reply any) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.commands = append(engine.commands, command)
	if command == ipc.CommandGetTimerState {
		if engine.stateErr != nil {
			return engine.stateErr
		}
		return ipc.Reply(engine.state, reply)
	}
	return engine.sendErr
}

func (engine *fakeEngine) sent() []string {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return append([]string(nil), engine.commands...)
}

type harness struct {
	store      *Store
	bus        *ipc.Bus
	engine     *fakeEngine
	reconciler *Reconciler
}

func newHarness(t *testing.T, engine *fakeEngine) *harness {
	t.Helper()
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	store := NewStore()
	reconciler := NewReconciler(store, bus, engine, executor)
	require.NoError(t, reconciler.Mount(context.Background()))
	t.Cleanup(func() { _ = reconciler.Close() })
	return &harness{store: store, bus: bus, engine: engine, reconciler: reconciler}
}

func (h *harness) tick(t *testing.T, remaining int, status model.TimerStatus) {
	t.Helper()
	require.NoError(t, h.bus.Emit(ipc.EventTimerTick, model.TickPayload{RemainingSeconds: remaining, Status: status}))
}

func (h *harness) complete(t *testing.T, sessionType model.SessionType) {
	t.Helper()
	require.NoError(t, h.bus.Emit(ipc.EventSessionComplete, model.SessionCompletePayload{SessionType: sessionType, DurationSeconds: 1500}))
}

func TestMountAdoptsEngineState(t *testing.T) {
	h := newHarness(t, &fakeEngine{state: model.TimerSnapshot{Status: model.StatusBreak, RemainingSeconds: 120}})
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusBreak, RemainingSeconds: 120}, h.store.Snapshot())
}

func TestMountFetchFailureKeepsDefaults(t *testing.T) {
	h := newHarness(t, &fakeEngine{stateErr: errors.New("engine unreachable")})
	assert.Equal(t, model.IdleSnapshot(), h.store.Snapshot())

	// Subscriptions are still live.
	h.tick(t, 10, model.StatusFocus)
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusFocus, RemainingSeconds: 10}, h.store.Snapshot())
}

func TestMountSubscriptionFailure(t *testing.T) {
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	bus.Close()
	reconciler := NewReconciler(NewStore(), bus, &fakeEngine{}, executor)

	err := reconciler.Mount(context.Background())
	assert.ErrorIs(t, err, ipc.ErrBusClosed)
}

func TestTickAdoptedLastWriteWins(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.tick(t, 100, model.StatusFocus)
	h.tick(t, 120, model.StatusFocus)
	assert.Equal(t, 120, h.store.RemainingSeconds())
}

func TestTickWithNegativeRemainingIsClamped(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.tick(t, -3, model.StatusBreak)
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusBreak, RemainingSeconds: 0}, h.store.Snapshot())
}

func TestTickWithUnknownStatusIgnored(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.tick(t, 100, model.StatusFocus)
	h.tick(t, 50, model.TimerStatus("warp"))
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusFocus, RemainingSeconds: 100}, h.store.Snapshot())
}

func TestFocusCompletionNeverChangesStore(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.tick(t, 1, model.StatusFocus)

	h.complete(t, model.SessionFocus)
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusFocus, RemainingSeconds: 1}, h.store.Snapshot())
}

func TestBreakCompletionResets(t *testing.T) {
	for _, remaining := range []int{0, 1, 250} {
		h := newHarness(t, &fakeEngine{})
		h.tick(t, remaining, model.StatusBreak)

		h.complete(t, model.SessionBreak)
		assert.Equal(t, model.IdleSnapshot(), h.store.Snapshot())
	}
}

func TestFocusToBreakNeverFlashesIdle(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	var seen []model.TimerSnapshot
	h.store.Subscribe(func(snapshot model.TimerSnapshot) {
		seen = append(seen, snapshot)
	})

	h.tick(t, 1500, model.StatusFocus)
	h.complete(t, model.SessionFocus)
	h.tick(t, 300, model.StatusBreak)

	assert.Equal(t, model.TimerSnapshot{Status: model.StatusBreak, RemainingSeconds: 300}, h.store.Snapshot())
	for _, snapshot := range seen {
		assert.NotEqual(t, model.StatusIdle, snapshot.Status)
	}
}

func TestStopResetsImmediatelyAndIgnoresLateTicks(t *testing.T) {
	engine := &fakeEngine{}
	h := newHarness(t, engine)
	h.tick(t, 900, model.StatusFocus)

	h.reconciler.Stop(context.Background())
	assert.Equal(t, model.IdleSnapshot(), h.store.Snapshot())
	assert.Contains(t, engine.sent(), ipc.CommandStopTimer)

	h.tick(t, 899, model.StatusFocus)
	assert.Equal(t, model.IdleSnapshot(), h.store.Snapshot())
}

func TestStopResetsEvenWhenEngineFails(t *testing.T) {
	h := newHarness(t, &fakeEngine{sendErr: errors.New("engine crashed")})
	h.tick(t, 900, model.StatusFocus)

	h.reconciler.Stop(context.Background())
	assert.Equal(t, model.IdleSnapshot(), h.store.Snapshot())
}

func TestStartLiftsStopFence(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.tick(t, 900, model.StatusFocus)
	h.reconciler.Stop(context.Background())

	h.reconciler.Start(context.Background())
	h.tick(t, 1500, model.StatusFocus)
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusFocus, RemainingSeconds: 1500}, h.store.Snapshot())
}

func TestIdleTickLiftsStopFence(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	h.reconciler.Stop(context.Background())

	h.tick(t, 0, model.StatusIdle)
	h.tick(t, 42, model.StatusFocus)
	assert.Equal(t, model.TimerSnapshot{Status: model.StatusFocus, RemainingSeconds: 42}, h.store.Snapshot())
}

func TestCommandsDoNotChangeStatusOptimistically(t *testing.T) {
	engine := &fakeEngine{}
	h := newHarness(t, engine)

	h.reconciler.Start(context.Background())
	assert.Equal(t, model.StatusIdle, h.store.Status())

	h.tick(t, 1500, model.StatusFocus)
	h.reconciler.Pause(context.Background())
	h.reconciler.Resume(context.Background())
	assert.Equal(t, model.StatusFocus, h.store.Status())

	assert.Equal(t, []string{
		ipc.CommandGetTimerState,
		ipc.CommandStartTimer,
		ipc.CommandPauseTimer,
		ipc.CommandResumeTimer,
	}, engine.sent())
}

func TestCloseMakesQueuedEventsNoOps(t *testing.T) {
	executor := &queuedExecutor{}
	bus := ipc.NewBus(executor)
	store := NewStore()
	reconciler := NewReconciler(store, bus, &fakeEngine{}, executor)
	require.NoError(t, reconciler.Mount(context.Background()))
	executor.runAll()

	require.NoError(t, bus.Emit(ipc.EventTimerTick, model.TickPayload{RemainingSeconds: 5, Status: model.StatusFocus}))
	require.NoError(t, reconciler.Close())
	executor.runAll()

	assert.Equal(t, model.IdleSnapshot(), store.Snapshot())
	assert.Equal(t, 0, bus.ListenerCount(ipc.EventTimerTick))
	assert.NoError(t, reconciler.Close())
	assert.Error(t, reconciler.Mount(context.Background()))
}

func TestMountTwiceSubscribesOnce(t *testing.T) {
	h := newHarness(t, &fakeEngine{})
	require.NoError(t, h.reconciler.Mount(context.Background()))
	assert.Equal(t, 1, h.bus.ListenerCount(ipc.EventTimerTick))
}

type queuedExecutor struct {
	tasks []func()
}

func (executor *queuedExecutor) Post(task func()) {
	executor.tasks = append(executor.tasks, task)
}

func (executor *queuedExecutor) runAll() {
	for len(executor.tasks) > 0 {
		task := executor.tasks[0]
		executor.tasks = executor.tasks[1:]
		task()
	}
}
