// Package animation runs the particle effects drawn behind a
// celebration.
package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cozyfocus/internal/core/presentation"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains particle timing and physics values.
type Config struct {
	FrameInterval time.Duration
	Lifetime      Range
	SparklePeriod Range
	Gravity       float32
	MinSize       float32
	MaxSize       float32
	Palettes      int
}

// Engine runs one particle effect at a time and hands every frame to
// render. render is called from the engine goroutine.
type Engine struct {
	mu     sync.Mutex
	config Config
	render func([]Particle)
	cancel context.CancelFunc
	done   chan struct{}
	rng    *rand.Rand
}

// New creates a new animation engine.
func New(config Config, render func([]Particle)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{
		config: config,
		render: render,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start replaces the running effect with count particles of kind.
func (engine *Engine) Start(ctx context.Context, kind presentation.ParticleType, count int) {
	engine.start(ctx, func(runCtx context.Context) {
		field := NewField(engine.config, kind, count, engine.rng)
		engine.render(field.Particles())
		for sleepWithContext(runCtx, engine.config.FrameInterval) {
			field.Step(engine.config.FrameInterval)
			engine.render(field.Particles())
		}
	})
}

// Stop terminates any active effect and waits for its goroutine, so no
// frame is rendered after Stop returns.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Running reports whether an effect is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.mu.Lock()
	engine.cancel, engine.done = cancel, done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
