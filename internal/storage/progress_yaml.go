package storage

import (
	"time"

	"cozyfocus/internal/core/engine"
)

const progressFileName = "progress.yaml"

type yamlProgress struct {
	TotalSessions  int                  `yaml:"total_sessions"`
	CurrentStreak  int                  `yaml:"current_streak"`
	LongestStreak  int                  `yaml:"longest_streak"`
	LastStreakDate string               `yaml:"last_streak_date,omitempty"`
	Unlocked       map[string]time.Time `yaml:"unlocked,omitempty"`
}

// ProgressFile stores the engine's session and achievement progress.
type ProgressFile struct {
	dir Dir
}

var _ engine.ProgressRepository = ProgressFile{}

// Progress returns the progress repository.
func (dir Dir) Progress() ProgressFile {
	return ProgressFile{dir: dir}
}

// LoadProgress returns the stored progress, empty when the file is
// missing. Negative counters are treated as zero.
func (file ProgressFile) LoadProgress() (engine.Progress, error) {
	var fileData yamlProgress
	if _, err := file.dir.readYAML(progressFileName, &fileData); err != nil {
		return engine.Progress{Unlocked: map[string]time.Time{}}, err
	}

	progress := engine.Progress{
		TotalSessions:  max(0, fileData.TotalSessions),
		CurrentStreak:  max(0, fileData.CurrentStreak),
		LongestStreak:  max(0, fileData.LongestStreak),
		LastStreakDate: fileData.LastStreakDate,
		Unlocked:       fileData.Unlocked,
	}
	progress.LongestStreak = max(progress.LongestStreak, progress.CurrentStreak)
	return progress.Clone(), nil
}

// SaveProgress replaces the stored progress.
func (file ProgressFile) SaveProgress(progress engine.Progress) error {
	return file.dir.writeYAML(progressFileName, yamlProgress{
		TotalSessions:  progress.TotalSessions,
		CurrentStreak:  progress.CurrentStreak,
		LongestStreak:  progress.LongestStreak,
		LastStreakDate: progress.LastStreakDate,
		Unlocked:       progress.Unlocked,
	})
}
