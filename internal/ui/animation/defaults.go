package animation

import "time"

// DefaultConfig returns frame timing tuned for a small overlay window.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
		Lifetime: Range{
			Min: 900 * time.Millisecond,
			Max: 1800 * time.Millisecond,
		},
		SparklePeriod: Range{
			Min: 400 * time.Millisecond,
			Max: 900 * time.Millisecond,
		},
		Gravity:  0.9,
		MinSize:  3,
		MaxSize:  8,
		Palettes: 4,
	}
}
