// Package engine is the local authoritative focus timer. It owns the
// countdown, completes sessions, tracks streaks and unlocks
// achievements, and talks to clients only through commands and events.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cozyfocus/internal/core/clock"
	"cozyfocus/internal/core/ipc"
	"cozyfocus/internal/core/model"
)

// ErrInvalidTransition is returned when a command does not apply to the
// current status.
var ErrInvalidTransition = errors.New("invalid timer transition")

// Emitter publishes engine events.
type Emitter interface {
	Emit(name string, payload any) error
}

// Options contains the engine collaborators besides the emitter.
type Options struct {
	Clock    clock.Clock
	Progress ProgressRepository
}

// Engine is the focus/break state machine.
type Engine struct {
	mu           sync.Mutex
	config       model.EngineConfig
	clock        clock.Clock
	emitter      Emitter
	repository   ProgressRepository
	status       model.TimerStatus
	pausedStatus model.TimerStatus
	remaining    int
	progress     Progress
	ticker       clock.Timer
	loopID       uint64
}

// New creates an idle engine.
func New(config model.EngineConfig, emitter Emitter, options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	return &Engine{
		config:     config.Normalized(),
		clock:      options.Clock,
		emitter:    emitter,
		repository: options.Progress,
		status:     model.StatusIdle,
		progress:   Progress{Unlocked: make(map[string]time.Time)},
	}
}

// Load restores progress from the repository.
func (engine *Engine) Load() error {
	if engine.repository == nil {
		return nil
	}
	progress, err := engine.repository.LoadProgress()
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	progress = progress.Clone()

	engine.mu.Lock()
	engine.progress = progress
	engine.mu.Unlock()
	return nil
}

// UpdateConfig changes the session lengths. The running session keeps
// its remaining time.
func (engine *Engine) UpdateConfig(config model.EngineConfig) {
	engine.mu.Lock()
	engine.config = config.Normalized()
	engine.mu.Unlock()
}

// Snapshot returns the current timer state.
func (engine *Engine) Snapshot() model.TimerSnapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Start begins a focus session. Only valid from idle.
func (engine *Engine) Start() (model.TimerSnapshot, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusIdle {
		return engine.snapshotLocked(), transitionError("start", engine.status)
	}
	engine.status = model.StatusFocus
	engine.remaining = engine.config.FocusSeconds()
	engine.pausedStatus = ""
	engine.ensureLoopLocked()
	engine.emitTickLocked()
	return engine.snapshotLocked(), nil
}

// Pause freezes a focus or break session.
func (engine *Engine) Pause() (model.TimerSnapshot, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.status.IsActive() {
		return engine.snapshotLocked(), transitionError("pause", engine.status)
	}
	engine.pausedStatus = engine.status
	engine.status = model.StatusPaused
	engine.emitTickLocked()
	return engine.snapshotLocked(), nil
}

// Resume continues a paused session in the phase it was paused in.
func (engine *Engine) Resume() (model.TimerSnapshot, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.status != model.StatusPaused || engine.pausedStatus == "" {
		return engine.snapshotLocked(), transitionError("resume", engine.status)
	}
	engine.status = engine.pausedStatus
	engine.pausedStatus = ""
	engine.emitTickLocked()
	return engine.snapshotLocked(), nil
}

// Stop abandons any session and goes idle. Stopping an idle engine is
// allowed; it still confirms with an idle tick.
func (engine *Engine) Stop() model.TimerSnapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()
	engine.emitTickLocked()
	return engine.snapshotLocked()
}

// Close stops the tick loop.
func (engine *Engine) Close() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLoopLocked()
}

// Achievements returns the catalog joined with the unlock records.
func (engine *Engine) Achievements() []model.AchievementWithStatus {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	catalog := Catalog()
	result := make([]model.AchievementWithStatus, 0, len(catalog))
	for _, achievement := range catalog {
		entry := model.AchievementWithStatus{Achievement: achievement}
		if at, ok := engine.progress.Unlocked[achievement.ID]; ok {
			unlockedAt := at
			entry.Unlocked = true
			entry.UnlockedAt = &unlockedAt
		}
		result = append(result, entry)
	}
	return result
}

// TotalSessions returns the number of completed focus sessions.
func (engine *Engine) TotalSessions() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.progress.TotalSessions
}

// Streak returns the current and longest streak.
func (engine *Engine) Streak() model.StreakPayload {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return model.StreakPayload{
		CurrentStreak: engine.progress.CurrentStreakAt(engine.clock.Now()),
		LongestStreak: engine.progress.LongestStreak,
	}
}

// Invoke implements ipc.Invoker.
func (engine *Engine) Invoke(ctx context.Context, command string, reply any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		result any
		err    error
	)
	switch command {
	case ipc.CommandGetTimerState:
		result = engine.Snapshot()
	case ipc.CommandStartTimer:
		result, err = engine.Start()
	case ipc.CommandPauseTimer:
		result, err = engine.Pause()
	case ipc.CommandResumeTimer:
		result, err = engine.Resume()
	case ipc.CommandStopTimer:
		result = engine.Stop()
	case ipc.CommandGetAchievements:
		result = engine.Achievements()
	case ipc.CommandGetTotalSessions:
		result = engine.TotalSessions()
	default:
		return fmt.Errorf("%s: %w", command, ipc.ErrUnknownCommand)
	}
	if err != nil {
		return err
	}
	return ipc.Reply(result, reply)
}

func (engine *Engine) ensureLoopLocked() {
	if engine.ticker != nil {
		return
	}
	engine.loopID++
	engine.scheduleTickLocked(engine.loopID)
}

func (engine *Engine) stopLoopLocked() {
	if engine.ticker != nil {
		engine.ticker.Stop()
		engine.ticker = nil
	}
	engine.loopID++
}

// scheduleTickLocked arms the next tick. A tick whose loop was stopped
// or replaced in the meantime does nothing.
func (engine *Engine) scheduleTickLocked(loopID uint64) {
	engine.ticker = engine.clock.AfterFunc(engine.config.TickInterval, func() {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		if engine.loopID != loopID {
			return
		}
		engine.tickLocked()
		if engine.loopID == loopID {
			engine.scheduleTickLocked(loopID)
		}
	})
}

func (engine *Engine) tick() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.tickLocked()
}

func (engine *Engine) tickLocked() {
	if !engine.status.IsActive() {
		return
	}
	if engine.remaining > 0 {
		engine.remaining--
		engine.emitTickLocked()
	}
	if engine.remaining == 0 {
		engine.completeLocked()
	}
}

func (engine *Engine) completeLocked() {
	now := engine.clock.Now()
	finished := engine.status

	payload := model.SessionCompletePayload{CompletedAt: now}
	if finished == model.StatusFocus {
		payload.SessionType = model.SessionFocus
		payload.DurationSeconds = engine.config.FocusSeconds()
		engine.recordFocusLocked(now)
	} else {
		payload.SessionType = model.SessionBreak
		payload.DurationSeconds = engine.config.BreakSeconds()
	}
	engine.emitLocked(ipc.EventSessionComplete, payload)

	if finished == model.StatusFocus {
		engine.status = model.StatusBreak
		engine.remaining = engine.config.BreakSeconds()
		engine.emitTickLocked()
		return
	}
	engine.stopLocked()
	engine.emitTickLocked()
}

func (engine *Engine) recordFocusLocked(now time.Time) {
	engine.progress.RecordSession(now)
	engine.emitLocked(ipc.EventStreakUpdated, model.StreakPayload{
		CurrentStreak: engine.progress.CurrentStreak,
		LongestStreak: engine.progress.LongestStreak,
	})

	for _, achievement := range Catalog() {
		if _, ok := engine.progress.Unlocked[achievement.ID]; ok {
			continue
		}
		if !Met(achievement.Requirement, engine.progress) {
			continue
		}
		engine.progress.Unlocked[achievement.ID] = now
		engine.emitLocked(ipc.EventAchievementUnlocked, model.CelebrationItem{
			ID:          achievement.ID,
			Title:       achievement.Title,
			Description: achievement.Description,
			Tier:        achievement.Tier,
			Icon:        achievement.Icon,
			UnlockedAt:  now,
		})
	}

	if engine.repository != nil {
		if err := engine.repository.SaveProgress(engine.progress.Clone()); err != nil {
			log.Printf("engine: save progress: %v", err)
		}
	}
}

func (engine *Engine) stopLocked() {
	engine.status = model.StatusIdle
	engine.remaining = 0
	engine.pausedStatus = ""
	engine.stopLoopLocked()
}

func (engine *Engine) snapshotLocked() model.TimerSnapshot {
	return model.TimerSnapshot{Status: engine.status, RemainingSeconds: engine.remaining}
}

func (engine *Engine) emitTickLocked() {
	engine.emitLocked(ipc.EventTimerTick, model.TickPayload{
		RemainingSeconds: engine.remaining,
		Status:           engine.status,
	})
}

// emitLocked publishes while holding the lock so events leave in state
// order. Emitters must not call back into the engine synchronously.
func (engine *Engine) emitLocked(name string, payload any) {
	if engine.emitter == nil {
		return
	}
	if err := engine.emitter.Emit(name, payload); err != nil {
		log.Printf("engine: emit %s: %v", name, err)
	}
}

func transitionError(action string, status model.TimerStatus) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, status)
}
