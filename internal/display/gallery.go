package display

import (
	"time"

	"cozyfocus/internal/core/model"
)

// Controls says which timer buttons apply to a status.
type Controls struct {
	Start  bool
	Pause  bool
	Resume bool
	Stop   bool
}

// ControlsFor derives the enabled timer buttons from status.
func ControlsFor(status model.TimerStatus) Controls {
	return Controls{
		Start:  status == model.StatusIdle || status == "",
		Pause:  status.IsActive(),
		Resume: status == model.StatusPaused,
		Stop:   status.IsRunning(),
	}
}

// GalleryRow is one achievement as the gallery shows it.
type GalleryRow struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Style       TierStyle
	Unlocked    bool
	New         bool
	UnlockedOn  string
}

// Gallery projects the achievement cache into rows, unlocked first and
// otherwise in catalog order. isNew reports the NEW badge.
func Gallery(achievements []model.AchievementWithStatus, isNew func(id string) bool) []GalleryRow {
	rows := make([]GalleryRow, 0, len(achievements))
	var locked []GalleryRow
	for _, achievement := range achievements {
		row := GalleryRow{
			ID:          achievement.ID,
			Title:       achievement.Title,
			Description: achievement.Description,
			Icon:        achievement.Icon,
			Style:       StyleFor(achievement.Tier),
			Unlocked:    achievement.Unlocked,
		}
		if !achievement.Unlocked {
			locked = append(locked, row)
			continue
		}
		row.New = isNew != nil && isNew(achievement.ID)
		if achievement.UnlockedAt != nil {
			row.UnlockedOn = achievement.UnlockedAt.Local().Format(time.DateOnly)
		}
		rows = append(rows, row)
	}
	return append(rows, locked...)
}

// UnlockedCount returns how many achievements are unlocked.
func UnlockedCount(achievements []model.AchievementWithStatus) int {
	count := 0
	for _, achievement := range achievements {
		if achievement.Unlocked {
			count++
		}
	}
	return count
}
