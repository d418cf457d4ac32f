package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a virtual clock. Time only moves when Advance is called, and
// due callbacks fire synchronously on the advancing goroutine.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	seq      uint64
	fn       func()
}

// NewFake returns a virtual clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (clock *Fake) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *Fake) AfterFunc(delay time.Duration, fn func()) Timer {
	if delay < 0 {
		delay = 0
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &fakeTimer{
		clock:    clock,
		deadline: clock.now.Add(delay),
		seq:      clock.seq,
		fn:       fn,
	}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves time forward by delta, firing every timer that falls
// due in deadline order, including timers scheduled by those callbacks.
func (clock *Fake) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.nextDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.removeLocked(next)
		if next.deadline.After(clock.now) {
			clock.now = next.deadline
		}
		clock.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers not yet fired or stopped.
func (clock *Fake) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Fake) nextDueLocked(target time.Time) *fakeTimer {
	if len(clock.timers) == 0 {
		return nil
	}
	sort.SliceStable(clock.timers, func(i, j int) bool {
		if clock.timers[i].deadline.Equal(clock.timers[j].deadline) {
			return clock.timers[i].seq < clock.timers[j].seq
		}
		return clock.timers[i].deadline.Before(clock.timers[j].deadline)
	})
	first := clock.timers[0]
	if first.deadline.After(target) {
		return nil
	}
	return first
}

func (clock *Fake) removeLocked(timer *fakeTimer) bool {
	for i, candidate := range clock.timers {
		if candidate == timer {
			clock.timers = append(clock.timers[:i], clock.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (timer *fakeTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	return timer.clock.removeLocked(timer)
}
