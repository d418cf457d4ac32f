// Package ipc is the event transport between the client core and the
// authoritative engine: named events with JSON payloads and
// request/response commands.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cozyfocus/internal/core/signal"
)

// Event names emitted by the engine.
const (
	EventTimerTick           = "TimerTick"
	EventSessionComplete     = "SessionComplete"
	EventAchievementUnlocked = "AchievementUnlocked"
	EventStreakUpdated       = "StreakUpdated"
)

// Commands understood by the engine.
const (
	CommandGetTimerState    = "get_timer_state"
	CommandStartTimer       = "start_timer"
	CommandPauseTimer       = "pause_timer"
	CommandResumeTimer      = "resume_timer"
	CommandStopTimer        = "stop_timer"
	CommandGetAchievements  = "get_achievements"
	CommandGetTotalSessions = "get_total_sessions"
)

var (
	// ErrBusClosed is returned by Listen after the bus is closed.
	ErrBusClosed = errors.New("event bus closed")
	// ErrUnknownCommand is returned for commands the engine does not know.
	ErrUnknownCommand = errors.New("unknown command")
)

// Event is a named notification with a JSON payload.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// Handler receives events.
type Handler func(Event)

// Listener subscribes to named events.
type Listener interface {
	Listen(name string, handler Handler) (*signal.Subscription, error)
}

// Invoker sends a command and decodes the reply into reply, which may
// be nil for fire-and-forget commands.
type Invoker interface {
	Invoke(ctx context.Context, command string, reply any) error
}

// Decode unmarshals the payload of event into T.
func Decode[T any](event Event) (T, error) {
	var value T
	if err := json.Unmarshal(event.Payload, &value); err != nil {
		return value, fmt.Errorf("decode %s payload: %w", event.Name, err)
	}
	return value, nil
}

// Reply copies result into reply through its JSON form, the same way a
// reply crossing a process boundary would be decoded.
func Reply(result any, reply any) error {
	if reply == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	if err := json.Unmarshal(raw, reply); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}
