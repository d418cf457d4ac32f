// Package clock abstracts wall-clock timers so timed state machines can
// run against a virtual clock in tests.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// call stopped the timer.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, fn func()) Timer
}

// Real adapts a clockwork clock.
type Real struct {
	clock clockwork.Clock
}

// New returns the wall clock.
func New() Real {
	return Wrap(clockwork.NewRealClock())
}

// Wrap adapts any clockwork clock. Note that clockwork's fake clock runs
// AfterFunc callbacks on their own goroutines; use Fake where callbacks
// must fire in order on the advancing goroutine.
func Wrap(clock clockwork.Clock) Real {
	return Real{clock: clock}
}

func (wall Real) Now() time.Time {
	return wall.clock.Now()
}

func (wall Real) AfterFunc(delay time.Duration, fn func()) Timer {
	return wall.clock.AfterFunc(delay, fn)
}
