package animation

import (
	"math"
	"math/rand"
	"time"

	"cozyfocus/internal/core/presentation"
)

// Particle is one dot of an effect. Positions are normalized to the
// unit square so the renderer can scale them to any window size.
type Particle struct {
	X, Y    float32
	VX, VY  float32
	Size    float32
	Alpha   float32
	Palette int

	age    time.Duration
	ttl    time.Duration
	period time.Duration
}

// Field simulates the particles of one effect.
type Field struct {
	config    Config
	kind      presentation.ParticleType
	rng       *rand.Rand
	particles []Particle
}

// NewField spawns count particles of kind.
func NewField(config Config, kind presentation.ParticleType, count int, rng *rand.Rand) *Field {
	field := &Field{
		config:    config,
		kind:      kind,
		rng:       rng,
		particles: make([]Particle, max(0, count)),
	}
	for i := range field.particles {
		field.spawn(&field.particles[i], true)
	}
	return field
}

// Kind returns the effect type.
func (field *Field) Kind() presentation.ParticleType {
	return field.kind
}

// Particles returns a copy of the current particles.
func (field *Field) Particles() []Particle {
	return append([]Particle(nil), field.particles...)
}

// Step advances the simulation by delta. Expired particles respawn so
// the count stays constant for as long as the effect runs.
func (field *Field) Step(delta time.Duration) {
	seconds := float32(delta.Seconds())
	for i := range field.particles {
		particle := &field.particles[i]
		particle.age += delta

		switch field.kind {
		case presentation.ParticleSparkle:
			phase := float64(particle.age) / float64(max(particle.period, time.Millisecond))
			particle.Alpha = float32(0.5 + 0.5*math.Sin(phase*2*math.Pi))
		case presentation.ParticleConfettiRain:
			particle.X += particle.VX * seconds
			particle.Y += particle.VY * seconds
			if particle.Y > 1 {
				field.spawn(particle, false)
			}
			continue
		default:
			particle.VY += field.config.Gravity * seconds
			particle.X += particle.VX * seconds
			particle.Y += particle.VY * seconds
			particle.Alpha = 1 - float32(particle.age)/float32(max(particle.ttl, time.Millisecond))
		}

		if particle.age >= particle.ttl || particle.Y > 1.1 {
			field.spawn(particle, false)
		}
	}
}

func (field *Field) spawn(particle *Particle, initial bool) {
	config := field.config
	*particle = Particle{
		Size:    config.MinSize + field.rng.Float32()*(config.MaxSize-config.MinSize),
		Alpha:   1,
		Palette: field.rng.Intn(max(1, config.Palettes)),
		ttl:     config.Lifetime.Random(field.rng),
		period:  config.SparklePeriod.Random(field.rng),
	}

	switch field.kind {
	case presentation.ParticleSparkle:
		particle.X = field.rng.Float32()
		particle.Y = field.rng.Float32()
	case presentation.ParticleConfettiRain:
		particle.X = field.rng.Float32()
		particle.Y = -0.05
		if initial {
			particle.Y = field.rng.Float32()
		}
		particle.VX = (field.rng.Float32() - 0.5) * 0.1
		particle.VY = 0.25 + field.rng.Float32()*0.25
	case presentation.ParticleFireworks:
		// Bursts start from a random point in the upper half.
		originX := 0.2 + field.rng.Float32()*0.6
		originY := 0.15 + field.rng.Float32()*0.35
		angle := field.rng.Float64() * 2 * math.Pi
		speed := 0.2 + field.rng.Float64()*0.3
		particle.X, particle.Y = originX, originY
		particle.VX = float32(math.Cos(angle) * speed)
		particle.VY = float32(math.Sin(angle) * speed)
	default:
		particle.X = 0.5
		particle.Y = 0.6
		particle.VX = (field.rng.Float32() - 0.5) * 0.8
		particle.VY = -0.6 - field.rng.Float32()*0.5
	}
}
