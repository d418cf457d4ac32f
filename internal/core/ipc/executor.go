package ipc

import (
	"context"
	"sync"
)

// Executor serialises work. Every store mutation, inbound event and
// timer callback is posted to the same executor so handlers never
// interleave.
type Executor interface {
	Post(task func())
}

// Loop is a single goroutine event loop with an unbounded FIFO queue.
// Posting never blocks, so a task may post follow-up work.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewLoop returns a loop that is idle until Run is called.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues task. Tasks posted after Close are dropped.
func (loop *Loop) Post(task func()) {
	if task == nil {
		return
	}
	loop.mu.Lock()
	if loop.closed {
		loop.mu.Unlock()
		return
	}
	loop.queue = append(loop.queue, task)
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled or Close is called.
func (loop *Loop) Run(ctx context.Context) {
	defer close(loop.done)
	for {
		for {
			task, ok := loop.next()
			if !ok {
				break
			}
			task()
		}

		loop.mu.Lock()
		closed := loop.closed
		loop.mu.Unlock()
		if closed {
			return
		}

		select {
		case <-ctx.Done():
			loop.Close()
			return
		case <-loop.wake:
		}
	}
}

// Close stops accepting tasks. Tasks already queued still run.
func (loop *Loop) Close() {
	loop.mu.Lock()
	if loop.closed {
		loop.mu.Unlock()
		return
	}
	loop.closed = true
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Done is closed once Run has returned.
func (loop *Loop) Done() <-chan struct{} {
	return loop.done
}

func (loop *Loop) next() (func(), bool) {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if len(loop.queue) == 0 {
		return nil, false
	}
	task := loop.queue[0]
	loop.queue[0] = nil
	loop.queue = loop.queue[1:]
	return task, true
}

// Inline runs tasks on the posting goroutine. A task posted while
// another is running is queued and run after it, so the run-to-
// completion guarantee of Loop holds. It is meant for single goroutine
// use such as tests driven by a virtual clock.
type Inline struct {
	running bool
	pending []func()
}

// NewInline returns an inline executor.
func NewInline() *Inline {
	return &Inline{}
}

func (inline *Inline) Post(task func()) {
	if task == nil {
		return
	}
	if inline.running {
		inline.pending = append(inline.pending, task)
		return
	}
	inline.running = true
	defer func() { inline.running = false }()

	task()
	for len(inline.pending) > 0 {
		next := inline.pending[0]
		inline.pending = inline.pending[1:]
		next()
	}
}
