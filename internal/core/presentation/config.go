package presentation

import (
	"time"

	"cozyfocus/internal/core/model"
)

const (
	EntranceDelay = 50 * time.Millisecond
	ExitDuration  = 300 * time.Millisecond
	QueueDelay    = 500 * time.Millisecond
)

// ParticleType selects the particle effect drawn behind a celebration.
type ParticleType string

const (
	ParticleSparkle      ParticleType = "sparkle"
	ParticleConfetti     ParticleType = "confetti"
	ParticleConfettiRain ParticleType = "confetti-rain"
	ParticleFireworks    ParticleType = "fireworks"
)

// TierConfig is the per tier celebration behaviour. Higher tiers linger
// longer and draw more particles.
type TierConfig struct {
	Duration      time.Duration
	ParticleCount int
	ParticleType  ParticleType
}

// Config contains the controller timings.
type Config struct {
	EntranceDelay time.Duration
	ExitDuration  time.Duration
	QueueDelay    time.Duration
	Tiers         map[model.Tier]TierConfig
	ReducedMotion bool
}

// DefaultConfig returns the canonical celebration timings.
func DefaultConfig() Config {
	return Config{
		EntranceDelay: EntranceDelay,
		ExitDuration:  ExitDuration,
		QueueDelay:    QueueDelay,
		Tiers: map[model.Tier]TierConfig{
			model.TierBronze:   {Duration: 3000 * time.Millisecond, ParticleCount: 20, ParticleType: ParticleSparkle},
			model.TierSilver:   {Duration: 4000 * time.Millisecond, ParticleCount: 40, ParticleType: ParticleConfetti},
			model.TierGold:     {Duration: 5000 * time.Millisecond, ParticleCount: 60, ParticleType: ParticleConfettiRain},
			model.TierPlatinum: {Duration: 6000 * time.Millisecond, ParticleCount: 100, ParticleType: ParticleFireworks},
		},
	}
}

// Tier returns the configuration for tier, falling back to bronze.
func (config Config) Tier(tier model.Tier) TierConfig {
	if value, ok := config.Tiers[tier.OrDefault()]; ok {
		return value
	}
	return DefaultConfig().Tiers[model.TierBronze]
}
