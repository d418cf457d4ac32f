package platform

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppName(t *testing.T) string {
	return fmt.Sprintf("cozyfocus-test-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestSingleInstance(t *testing.T) {
	name := testAppName(t)

	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestActivateRunning(t *testing.T) {
	name := testAppName(t)
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	require.NoError(t, ActivateRunning(name))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("cozyfocus")
	assert.Equal(t, port, portFromName("cozyfocus"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
