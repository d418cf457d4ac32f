package presentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/core/clock"
	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
)

var epoch = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store      *celebration.Store
	clock      *clock.Fake
	controller *Controller
}

func newFixture(t *testing.T, config Config, items ...model.CelebrationItem) *fixture {
	t.Helper()
	store := celebration.NewStore(celebration.Config{})
	for _, item := range items {
		store.Enqueue(item)
	}
	fake := clock.NewFake(epoch)
	controller := New(store, fake, ipc.NewInline(), config)
	t.Cleanup(func() { _ = controller.Close() })
	return &fixture{store: store, clock: fake, controller: controller}
}

func celebrationItem(id string, tier model.Tier) model.CelebrationItem {
	return model.CelebrationItem{ID: id, Title: id, Tier: tier, UnlockedAt: epoch}
}

func currentID(t *testing.T, controller *Controller) string {
	t.Helper()
	view := controller.View()
	require.True(t, view.HasItem)
	return view.Entry.Item.ID
}

func TestDefaultTimings(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 50*time.Millisecond, config.EntranceDelay)
	assert.Equal(t, 300*time.Millisecond, config.ExitDuration)
	assert.Equal(t, 500*time.Millisecond, config.QueueDelay)
	assert.Equal(t, 3*time.Second, config.Tier(model.TierBronze).Duration)
	assert.Equal(t, 4*time.Second, config.Tier(model.TierSilver).Duration)
	assert.Equal(t, 5*time.Second, config.Tier(model.TierGold).Duration)
	assert.Equal(t, 6*time.Second, config.Tier(model.TierPlatinum).Duration)
	assert.Equal(t, config.Tier(model.TierBronze), config.Tier(model.Tier("mythic")))
}

func TestIdleWithEmptyQueue(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.controller.Start()

	assert.Equal(t, StateIdle, f.controller.State())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestQueueScenarioUserThenAutoDismiss(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("b", model.TierGold),
	)
	f.controller.Start()
	assert.Equal(t, StateEntering, f.controller.State())
	assert.Equal(t, "a", currentID(t, f.controller))

	f.clock.Advance(EntranceDelay)
	assert.Equal(t, StateVisible, f.controller.State())

	f.controller.Dismiss()
	assert.Equal(t, StateExiting, f.controller.State())
	assert.True(t, f.store.HasViewed("a"))
	assert.Equal(t, 2, f.store.Len(), "removal waits for the exit animation")

	f.clock.Advance(299 * time.Millisecond)
	assert.Equal(t, 2, f.store.Len())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, StateCooldown, f.controller.State())

	f.clock.Advance(499 * time.Millisecond)
	assert.Equal(t, StateCooldown, f.controller.State())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, StateEntering, f.controller.State())
	assert.Equal(t, "b", currentID(t, f.controller))

	f.clock.Advance(EntranceDelay)
	assert.Equal(t, StateVisible, f.controller.State())

	f.clock.Advance(4999 * time.Millisecond)
	assert.Equal(t, StateVisible, f.controller.State())
	assert.False(t, f.store.HasViewed("b"))

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, StateExiting, f.controller.State())
	assert.True(t, f.store.HasViewed("b"))

	f.clock.Advance(ExitDuration)
	assert.Equal(t, 0, f.store.Len())

	f.clock.Advance(QueueDelay)
	assert.Equal(t, StateIdle, f.controller.State())
	assert.False(t, f.controller.View().HasItem)
	assert.Equal(t, 0, f.clock.Pending())
}

func TestAutoDismissPerTier(t *testing.T) {
	for tier, want := range map[model.Tier]time.Duration{
		model.TierBronze:   3 * time.Second,
		model.TierSilver:   4 * time.Second,
		model.TierGold:     5 * time.Second,
		model.TierPlatinum: 6 * time.Second,
	} {
		f := newFixture(t, DefaultConfig(), celebrationItem("x", tier))
		f.controller.Start()
		f.clock.Advance(EntranceDelay)

		f.clock.Advance(want - time.Millisecond)
		assert.Equal(t, StateVisible, f.controller.State(), string(tier))
		f.clock.Advance(time.Millisecond)
		assert.Equal(t, StateExiting, f.controller.State(), string(tier))
	}
}

func TestDismissIsIdempotentWhileExiting(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("b", model.TierBronze),
		celebrationItem("c", model.TierBronze),
	)
	f.controller.Start()
	f.clock.Advance(EntranceDelay)

	f.controller.Dismiss()
	f.controller.Dismiss()
	f.clock.Advance(100 * time.Millisecond)
	f.controller.Dismiss()
	f.clock.Advance(ExitDuration)

	assert.Equal(t, 2, f.store.Len(), "exactly one dequeue")
}

func TestUserDismissCancelsAutoDismiss(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("b", model.TierPlatinum),
	)
	f.controller.Start()
	f.clock.Advance(EntranceDelay)
	f.clock.Advance(2900 * time.Millisecond)

	f.controller.Dismiss()
	// The bronze auto-dismiss would fire here if it were still armed.
	f.clock.Advance(ExitDuration + QueueDelay + EntranceDelay)
	assert.Equal(t, StateVisible, f.controller.State())
	assert.Equal(t, "b", currentID(t, f.controller))
	assert.Equal(t, 2-1, f.store.Len())
}

func TestDismissWithNothingCurrent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.controller.Start()

	assert.NotPanics(t, func() { f.controller.Dismiss() })
	assert.Equal(t, StateIdle, f.controller.State())
	assert.Empty(t, f.store.Viewed())
}

func TestDismissDuringCooldownIsNoOp(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("b", model.TierBronze),
	)
	f.controller.Start()
	f.clock.Advance(EntranceDelay)
	f.controller.Dismiss()
	f.clock.Advance(ExitDuration)
	require.Equal(t, StateCooldown, f.controller.State())

	f.controller.Dismiss()
	assert.Equal(t, 1, f.store.Len())
	assert.False(t, f.store.HasViewed("b"))
}

func TestEnqueueWhileBusyIsNotDropped(t *testing.T) {
	f := newFixture(t, DefaultConfig(), celebrationItem("a", model.TierBronze))
	f.controller.Start()
	f.clock.Advance(EntranceDelay)

	f.store.Enqueue(celebrationItem("b", model.TierBronze))
	f.store.Enqueue(celebrationItem("c", model.TierBronze))
	assert.Equal(t, "a", currentID(t, f.controller))

	var shown []string
	for i := 0; i < 3; i++ {
		shown = append(shown, currentID(t, f.controller))
		f.controller.Dismiss()
		f.clock.Advance(ExitDuration + QueueDelay + EntranceDelay)
	}
	assert.Equal(t, []string{"a", "b", "c"}, shown)
	assert.Equal(t, StateIdle, f.controller.State())
}

func TestEnqueueIntoIdleController(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.controller.Start()

	f.store.Enqueue(celebrationItem("late", model.TierSilver))
	assert.Equal(t, StateEntering, f.controller.State())
	f.clock.Advance(EntranceDelay)
	assert.Equal(t, StateVisible, f.controller.State())
}

func TestDuplicateIdsEachCelebrate(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("a", model.TierBronze),
	)
	f.controller.Start()
	f.clock.Advance(EntranceDelay)
	first := f.controller.View().Entry.Key

	f.controller.Dismiss()
	f.clock.Advance(ExitDuration + QueueDelay + EntranceDelay)
	second := f.controller.View().Entry.Key

	assert.Equal(t, StateVisible, f.controller.State())
	assert.NotEqual(t, first, second)
}

func TestReducedMotionOnlyHidesParticles(t *testing.T) {
	config := DefaultConfig()
	config.ReducedMotion = true
	f := newFixture(t, config, celebrationItem("a", model.TierGold))
	f.controller.Start()
	f.clock.Advance(EntranceDelay)

	view := f.controller.View()
	assert.True(t, view.Visible())
	assert.False(t, view.ShowParticles)

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, StateExiting, f.controller.State())

	f.controller.SetReducedMotion(false)
	assert.False(t, f.controller.View().ShowParticles, "no particles while exiting")
}

func TestParticlesOnlyWhileVisible(t *testing.T) {
	f := newFixture(t, DefaultConfig(), celebrationItem("a", model.TierPlatinum))
	var views []View
	f.controller.Subscribe(func(view View) { views = append(views, view) })
	f.controller.Start()

	require.NotEmpty(t, views)
	assert.False(t, views[len(views)-1].ShowParticles)

	f.clock.Advance(EntranceDelay)
	view := f.controller.View()
	assert.True(t, view.ShowParticles)
	assert.Equal(t, 100, view.Tier.ParticleCount)
	assert.Equal(t, ParticleFireworks, view.Tier.ParticleType)
}

func TestCloseCancelsTimersAndIgnoresLateCallbacks(t *testing.T) {
	f := newFixture(t, DefaultConfig(),
		celebrationItem("a", model.TierBronze),
		celebrationItem("b", model.TierBronze),
	)
	f.controller.Start()
	f.clock.Advance(EntranceDelay)
	f.controller.Dismiss()

	require.NoError(t, f.controller.Close())
	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(10 * time.Second)
	f.controller.Dismiss()
	f.store.Enqueue(celebrationItem("c", model.TierBronze))

	assert.Equal(t, StateExiting, f.controller.State())
	assert.Equal(t, 3, f.store.Len())
	assert.NoError(t, f.controller.Close())
}

func TestTimerFiringAfterCloseIsNoOp(t *testing.T) {
	store := celebration.NewStore(celebration.Config{})
	store.Enqueue(celebrationItem("a", model.TierBronze))
	leaky := &leakyClock{Fake: clock.NewFake(epoch)}
	controller := New(store, leaky, ipc.NewInline(), DefaultConfig())
	controller.Start()
	require.NoError(t, controller.Close())

	// The underlying timer ignores Stop, so the callback still fires.
	assert.NotPanics(t, func() { leaky.fireAll() })
	assert.Equal(t, StateEntering, controller.State())
}

func TestResetWhileExitingKeepsNewArrival(t *testing.T) {
	f := newFixture(t, DefaultConfig(), celebrationItem("a", model.TierBronze))
	f.controller.Start()
	f.clock.Advance(EntranceDelay)
	f.controller.Dismiss()
	require.Equal(t, StateExiting, f.controller.State())

	f.store.Reset()
	f.store.Enqueue(celebrationItem("b", model.TierSilver))

	f.clock.Advance(ExitDuration)
	assert.Equal(t, StateCooldown, f.controller.State())
	assert.Equal(t, 1, f.store.Len(), "b was never shown so it stays queued")

	f.clock.Advance(QueueDelay)
	assert.Equal(t, StateEntering, f.controller.State())
	assert.Equal(t, "b", currentID(t, f.controller))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "visible", StateVisible.String())
	assert.Equal(t, "cooldown", StateCooldown.String())
	assert.Equal(t, "unknown", State(42).String())
}

type leakyClock struct {
	*clock.Fake
	callbacks []func()
}

func (leaky *leakyClock) AfterFunc(delay time.Duration, fn func()) clock.Timer {
	leaky.callbacks = append(leaky.callbacks, fn)
	return noopTimer{}
}

func (leaky *leakyClock) fireAll() {
	for _, fn := range leaky.callbacks {
		fn()
	}
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }
