// Package display derives presentation values from core state.
package display

import (
	"fmt"
	"image/color"

	"cozyfocus/internal/core/model"
)

// FormatDuration renders seconds as MM:SS. Minutes are not capped, so an
// hour reads 60:00.
func FormatDuration(seconds int) string {
	seconds = max(0, seconds)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatFocusTime renders whole minutes as 0m, 25m, 1h or 1h 30m.
func FormatFocusTime(minutes int) string {
	minutes = max(0, minutes)
	hours, rest := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}

// StatusLabel is the human readable timer phase.
func StatusLabel(status model.TimerStatus) string {
	switch status {
	case model.StatusFocus:
		return "Focusing"
	case model.StatusBreak:
		return "On a break"
	case model.StatusPaused:
		return "Paused"
	default:
		return "Ready to focus"
	}
}

// Progress is the elapsed fraction of a session, clamped to [0, 1].
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	progress := float64(total-remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// SessionTotal returns the configured length in seconds of the phase a
// status counts down. The client cannot see which phase a pause froze,
// so paused sessions report the focus length.
func SessionTotal(status model.TimerStatus, config model.EngineConfig) int {
	config = config.Normalized()
	switch status {
	case model.StatusBreak:
		return config.BreakSeconds()
	case model.StatusFocus, model.StatusPaused:
		return config.FocusSeconds()
	default:
		return 0
	}
}

// TierStyle is the visual treatment of an achievement tier.
type TierStyle struct {
	Label string
	Hex   string
	Color color.NRGBA
}

var tierStyles = map[model.Tier]TierStyle{
	model.TierBronze:   {Label: "Bronze", Hex: "#CD7F32", Color: color.NRGBA{R: 0xCD, G: 0x7F, B: 0x32, A: 0xFF}},
	model.TierSilver:   {Label: "Silver", Hex: "#C0C0C0", Color: color.NRGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}},
	model.TierGold:     {Label: "Gold", Hex: "#FFD700", Color: color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}},
	model.TierPlatinum: {Label: "Platinum", Hex: "#E5E4E2", Color: color.NRGBA{R: 0xE5, G: 0xE4, B: 0xE2, A: 0xFF}},
}

// StyleFor returns the style of tier, bronze for unknown tiers.
func StyleFor(tier model.Tier) TierStyle {
	return tierStyles[tier.OrDefault()]
}

// Glow returns the tier color at the given opacity, for halos and
// particle tints.
func (style TierStyle) Glow(alpha uint8) color.NRGBA {
	glow := style.Color
	glow.A = alpha
	return glow
}
