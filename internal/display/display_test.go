package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cozyfocus/internal/core/model"
)

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		61:   "01:01",
		1500: "25:00",
		3600: "60:00",
		6000: "100:00",
		-5:   "00:00",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, FormatDuration(seconds), "seconds=%d", seconds)
	}
}

func TestFormatFocusTime(t *testing.T) {
	assert.Equal(t, "0m", FormatFocusTime(0))
	assert.Equal(t, "25m", FormatFocusTime(25))
	assert.Equal(t, "1h", FormatFocusTime(60))
	assert.Equal(t, "1h 30m", FormatFocusTime(90))
	assert.Equal(t, "0m", FormatFocusTime(-3))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Focusing", StatusLabel(model.StatusFocus))
	assert.Equal(t, "Ready to focus", StatusLabel(model.TimerStatus("")))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(1500, 1500))
	assert.Equal(t, 0.5, Progress(750, 1500))
	assert.Equal(t, 1.0, Progress(0, 1500))
	assert.Equal(t, 1.0, Progress(-10, 1500))
	assert.Equal(t, 0.0, Progress(2000, 1500))
	assert.Equal(t, 0.0, Progress(10, 0))
}

func TestSessionTotal(t *testing.T) {
	config := model.EngineConfig{FocusDuration: 50 * time.Minute, BreakDuration: 10 * time.Minute}

	assert.Equal(t, 3000, SessionTotal(model.StatusFocus, config))
	assert.Equal(t, 600, SessionTotal(model.StatusBreak, config))
	assert.Equal(t, 3000, SessionTotal(model.StatusPaused, config))
	assert.Equal(t, 0, SessionTotal(model.StatusIdle, config))
	assert.Equal(t, 1500, SessionTotal(model.StatusFocus, model.EngineConfig{}))
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, "#CD7F32", StyleFor(model.TierBronze).Hex)
	assert.Equal(t, "#C0C0C0", StyleFor(model.TierSilver).Hex)
	assert.Equal(t, "#FFD700", StyleFor(model.TierGold).Hex)
	assert.Equal(t, "#E5E4E2", StyleFor(model.TierPlatinum).Hex)
	assert.Equal(t, StyleFor(model.TierBronze), StyleFor(model.Tier("diamond")))

	glow := StyleFor(model.TierGold).Glow(0x40)
	assert.Equal(t, uint8(0xFF), glow.R)
	assert.Equal(t, uint8(0x40), glow.A)
}
