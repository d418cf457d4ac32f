package celebration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
)

type fakeAchievements struct {
	achievements []model.AchievementWithStatus
	total        int
	err          error
}

func (engine *fakeAchievements) Invoke(ctx context.Context, command string, reply any) error {
	if engine.err != nil {
		return engine.err
	}
	switch command {
	case ipc.CommandGetAchievements:
		return ipc.Reply(engine.achievements, reply)
	case ipc.CommandGetTotalSessions:
		return ipc.Reply(engine.total, reply)
	}
	return ipc.ErrUnknownCommand
}

func TestBinderMountLoadsGallery(t *testing.T) {
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	store := NewStore(Config{})
	engine := &fakeAchievements{achievements: lockedCatalog("first_session", "sessions_10"), total: 7}

	binder := NewBinder(store, bus, engine, executor)
	require.NoError(t, binder.Mount(context.Background()))
	defer binder.Close()

	assert.Len(t, store.Achievements(), 2)
	assert.Equal(t, 7, store.TotalSessions())
	assert.False(t, store.Loading())
}

func TestBinderRefreshFailureKeepsCache(t *testing.T) {
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	store := NewStore(Config{})
	store.SetAchievements(lockedCatalog("first_session"))

	binder := NewBinder(store, bus, &fakeAchievements{err: errors.New("offline")}, executor)
	require.NoError(t, binder.Mount(context.Background()))

	assert.Len(t, store.Achievements(), 1)
	assert.False(t, store.Loading())
}

func TestBinderQueuesUnlockEvents(t *testing.T) {
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	store := NewStore(Config{})
	binder := NewBinder(store, bus, &fakeAchievements{achievements: lockedCatalog("a", "b")}, executor)
	require.NoError(t, binder.Mount(context.Background()))

	require.NoError(t, bus.Emit(ipc.EventAchievementUnlocked, item("a", model.TierBronze)))
	require.NoError(t, bus.Emit(ipc.EventAchievementUnlocked, item("b", model.TierGold)))
	require.NoError(t, bus.Emit(ipc.EventAchievementUnlocked, model.CelebrationItem{}))

	pending := store.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].Item.ID)
	assert.Equal(t, model.TierGold, pending[1].Item.Tier)
	assert.True(t, store.IsNew("b"))
}

func TestBinderCloseStopsUnlocks(t *testing.T) {
	executor := ipc.NewInline()
	bus := ipc.NewBus(executor)
	store := NewStore(Config{})
	binder := NewBinder(store, bus, &fakeAchievements{}, executor)
	require.NoError(t, binder.Mount(context.Background()))

	require.NoError(t, binder.Close())
	require.NoError(t, bus.Emit(ipc.EventAchievementUnlocked, item("a", model.TierBronze)))

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, bus.ListenerCount(ipc.EventAchievementUnlocked))
	assert.Error(t, binder.Mount(context.Background()))
}
