package preferences

import (
	"time"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/core/model"
	"cozyfocus/internal/core/presentation"
)

const (
	MaxFocusMinutes = 180
	MaxBreakMinutes = 60
)

// Settings defines editable user preferences.
type Settings struct {
	FocusDuration    time.Duration
	BreakDuration    time.Duration
	ReducedMotion    bool
	Autostart        bool
	DuplicateUnlocks celebration.DuplicatePolicy
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		FocusDuration:    model.DefaultFocusDuration,
		BreakDuration:    model.DefaultBreakDuration,
		DuplicateUnlocks: celebration.DuplicatesQueue,
	}
}

// Normalized replaces out of range values with their defaults.
func (settings Settings) Normalized() Settings {
	defaults := DefaultSettings()
	if !inMinutes(settings.FocusDuration, MaxFocusMinutes) {
		settings.FocusDuration = defaults.FocusDuration
	}
	if !inMinutes(settings.BreakDuration, MaxBreakMinutes) {
		settings.BreakDuration = defaults.BreakDuration
	}
	settings.DuplicateUnlocks = celebration.ParseDuplicatePolicy(string(settings.DuplicateUnlocks))
	return settings
}

// EngineConfig converts settings to the engine schedule.
func (settings Settings) EngineConfig() model.EngineConfig {
	return model.EngineConfig{
		FocusDuration: settings.FocusDuration,
		BreakDuration: settings.BreakDuration,
		TickInterval:  model.DefaultTickInterval,
	}.Normalized()
}

// PresentationConfig converts settings to celebration timings.
func (settings Settings) PresentationConfig() presentation.Config {
	config := presentation.DefaultConfig()
	config.ReducedMotion = settings.ReducedMotion
	return config
}

func inMinutes(duration time.Duration, maxMinutes int) bool {
	return duration >= time.Minute && duration <= time.Duration(maxMinutes)*time.Minute
}
