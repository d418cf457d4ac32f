package model

import "time"

const (
	DefaultFocusDuration = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
	DefaultTickInterval  = time.Second
)

// EngineConfig contains runtime settings for the local timer engine.
type EngineConfig struct {
	FocusDuration time.Duration
	BreakDuration time.Duration
	TickInterval  time.Duration
}

// DefaultEngineConfig returns the classic 25/5 pomodoro schedule.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FocusDuration: DefaultFocusDuration,
		BreakDuration: DefaultBreakDuration,
		TickInterval:  DefaultTickInterval,
	}
}

// Normalized fills zero or negative values with defaults.
func (config EngineConfig) Normalized() EngineConfig {
	if config.FocusDuration <= 0 {
		config.FocusDuration = DefaultFocusDuration
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = DefaultBreakDuration
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	return config
}

// FocusSeconds returns the focus length in whole seconds.
func (config EngineConfig) FocusSeconds() int {
	return int(config.FocusDuration / time.Second)
}

// BreakSeconds returns the break length in whole seconds.
func (config EngineConfig) BreakSeconds() int {
	return int(config.BreakDuration / time.Second)
}
