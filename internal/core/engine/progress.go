package engine

import "time"

const dayLayout = "2006-01-02"

// Progress is the persisted achievement state.
type Progress struct {
	TotalSessions  int
	CurrentStreak  int
	LongestStreak  int
	LastStreakDate string
	Unlocked       map[string]time.Time
}

// ProgressRepository loads and stores Progress.
type ProgressRepository interface {
	LoadProgress() (Progress, error)
	SaveProgress(Progress) error
}

// Clone returns a deep copy.
func (progress Progress) Clone() Progress {
	unlocked := make(map[string]time.Time, len(progress.Unlocked))
	for id, at := range progress.Unlocked {
		unlocked[id] = at
	}
	progress.Unlocked = unlocked
	return progress
}

// RecordSession counts one completed focus session at now. Several
// sessions on the same local day extend the streak once; a missed day
// starts it over.
func (progress *Progress) RecordSession(now time.Time) {
	progress.TotalSessions++

	today := now.Format(dayLayout)
	switch progress.LastStreakDate {
	case today:
		if progress.CurrentStreak == 0 {
			progress.CurrentStreak = 1
		}
	case now.AddDate(0, 0, -1).Format(dayLayout):
		progress.CurrentStreak++
	default:
		progress.CurrentStreak = 1
	}
	progress.LastStreakDate = today
	progress.LongestStreak = max(progress.LongestStreak, progress.CurrentStreak)
}

// CurrentStreakAt returns the streak as seen on now's day: it lapses
// once a full day passes without a session.
func (progress Progress) CurrentStreakAt(now time.Time) int {
	switch progress.LastStreakDate {
	case now.Format(dayLayout), now.AddDate(0, 0, -1).Format(dayLayout):
		return progress.CurrentStreak
	default:
		return 0
	}
}
