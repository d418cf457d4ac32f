package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozyfocus/internal/core/model"
)

func TestControlsFor(t *testing.T) {
	assert.Equal(t, Controls{Start: true}, ControlsFor(model.StatusIdle))
	assert.Equal(t, Controls{Pause: true, Stop: true}, ControlsFor(model.StatusFocus))
	assert.Equal(t, Controls{Pause: true, Stop: true}, ControlsFor(model.StatusBreak))
	assert.Equal(t, Controls{Resume: true, Stop: true}, ControlsFor(model.StatusPaused))
}

func TestGallery(t *testing.T) {
	unlockedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)
	achievements := []model.AchievementWithStatus{
		{Achievement: model.Achievement{ID: "first_session", Title: "First Focus", Tier: model.TierBronze}, Unlocked: true, UnlockedAt: &unlockedAt},
		{Achievement: model.Achievement{ID: "streak_7", Title: "Week Warrior", Tier: model.TierSilver}},
		{Achievement: model.Achievement{ID: "sessions_10", Title: "Getting Started", Tier: model.TierBronze}, Unlocked: true},
	}

	rows := Gallery(achievements, func(id string) bool { return id == "sessions_10" })

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"first_session", "sessions_10", "streak_7"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.False(t, rows[0].New)
	assert.Equal(t, "2026-06-01", rows[0].UnlockedOn)
	assert.True(t, rows[1].New)
	assert.Empty(t, rows[1].UnlockedOn)
	assert.False(t, rows[2].Unlocked)
	assert.Equal(t, "#C0C0C0", rows[2].Style.Hex)

	assert.Equal(t, 2, UnlockedCount(achievements))
	assert.Len(t, Gallery(achievements, nil), 3)
}
