package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownStatus is returned when a status string is not recognised.
var ErrUnknownStatus = errors.New("unknown timer status")

// TimerStatus is the phase the timer is in.
type TimerStatus string

const (
	StatusIdle   TimerStatus = "idle"
	StatusFocus  TimerStatus = "focus"
	StatusBreak  TimerStatus = "break"
	StatusPaused TimerStatus = "paused"
)

// ParseTimerStatus validates a wire status value.
func ParseTimerStatus(value string) (TimerStatus, error) {
	switch status := TimerStatus(value); status {
	case StatusIdle, StatusFocus, StatusBreak, StatusPaused:
		return status, nil
	}
	return StatusIdle, fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

func (status TimerStatus) IsFocus() bool { return status == StatusFocus }

func (status TimerStatus) IsBreak() bool { return status == StatusBreak }

// IsActive reports whether time is counting down.
func (status TimerStatus) IsActive() bool {
	return status == StatusFocus || status == StatusBreak
}

// IsRunning reports whether a session exists, counting down or paused.
func (status TimerStatus) IsRunning() bool {
	return status.IsActive() || status == StatusPaused
}

// TimerSnapshot is the client's belief about the timer.
type TimerSnapshot struct {
	Status           TimerStatus `json:"status"`
	RemainingSeconds int         `json:"remainingSeconds"`
}

// IdleSnapshot is the state at process start and after a reset.
func IdleSnapshot() TimerSnapshot {
	return TimerSnapshot{Status: StatusIdle, RemainingSeconds: 0}
}

// Clamped returns the snapshot with a non-negative remaining time.
func (snapshot TimerSnapshot) Clamped() TimerSnapshot {
	if snapshot.RemainingSeconds < 0 {
		snapshot.RemainingSeconds = 0
	}
	if snapshot.Status == "" {
		snapshot.Status = StatusIdle
	}
	return snapshot
}

// SessionType identifies which phase a completion belongs to.
type SessionType string

const (
	SessionFocus SessionType = "focus"
	SessionBreak SessionType = "break"
)

// TickPayload is carried by every TimerTick event.
type TickPayload struct {
	RemainingSeconds int         `json:"remainingSeconds"`
	Status           TimerStatus `json:"status"`
}

// Snapshot converts the payload into a store snapshot.
func (payload TickPayload) Snapshot() TimerSnapshot {
	return TimerSnapshot{Status: payload.Status, RemainingSeconds: payload.RemainingSeconds}.Clamped()
}

// SessionCompletePayload is carried by SessionComplete events.
type SessionCompletePayload struct {
	SessionType     SessionType `json:"sessionType"`
	DurationSeconds int         `json:"durationSeconds"`
	CompletedAt     time.Time   `json:"completedAt"`
}
