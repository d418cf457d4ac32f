package storage

import (
	"time"

	"cozyfocus/internal/core/celebration"
	"cozyfocus/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	FocusMinutes     int    `yaml:"focus_minutes"`
	BreakMinutes     int    `yaml:"break_minutes"`
	ReducedMotion    bool   `yaml:"reduced_motion"`
	Autostart        bool   `yaml:"autostart"`
	DuplicateUnlocks string `yaml:"duplicate_unlocks,omitempty"`
}

// LoadSettings reads user preferences. A missing file yields defaults;
// out of range values fall back to their default one at a time.
func (dir Dir) LoadSettings() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	var fileData yamlSettings
	found, err := dir.readYAML(settingsFileName, &fileData)
	if err != nil || !found {
		return settings, err
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences.
func (dir Dir) SaveSettings(settings preferences.Settings) error {
	return dir.writeYAML(settingsFileName, yamlSettings{
		FocusMinutes:     int(settings.FocusDuration / time.Minute),
		BreakMinutes:     int(settings.BreakDuration / time.Minute),
		ReducedMotion:    settings.ReducedMotion,
		Autostart:        settings.Autostart,
		DuplicateUnlocks: string(settings.DuplicateUnlocks),
	})
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.FocusMinutes > 0 && fileData.FocusMinutes <= preferences.MaxFocusMinutes {
		settings.FocusDuration = time.Duration(fileData.FocusMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 && fileData.BreakMinutes <= preferences.MaxBreakMinutes {
		settings.BreakDuration = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	settings.ReducedMotion = fileData.ReducedMotion
	settings.Autostart = fileData.Autostart
	settings.DuplicateUnlocks = celebration.ParseDuplicatePolicy(fileData.DuplicateUnlocks)
}
