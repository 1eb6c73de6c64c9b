package game

import (
	"math"
	"math/rand"
)

// Particle is one slot in the effect pool. Life runs from 1 down to 0;
// opacity and render scale are derived from it directly.
type Particle struct {
	Position Vec3
	Velocity Vec3
	Life     float64
	Decay    float64 // life lost per tick
	Kind     TargetKind
	Flash    bool // flash particles ignore gravity

	active bool
}

// ParticleSystem is a fixed-capacity burst-and-decay pool. Burst requests
// that find no free slots are silently truncated; the pool never grows.
// Not safe for concurrent use.
type ParticleSystem struct {
	tuning Tuning
	rng    *rand.Rand
	slots  []Particle
	free   []int
}

// NewParticleSystem allocates the pool up front.
func NewParticleSystem(tuning Tuning, rng *rand.Rand) *ParticleSystem {
	p := &ParticleSystem{
		tuning: tuning,
		rng:    rng,
		slots:  make([]Particle, tuning.MaxParticles),
		free:   make([]int, 0, tuning.MaxParticles),
	}
	p.Reset()
	return p
}

// Reset retires every particle.
func (p *ParticleSystem) Reset() {
	p.free = p.free[:0]
	for i := range p.slots {
		p.slots[i] = Particle{}
		p.free = append(p.free, i)
	}
}

// ActiveCount returns the number of live particles.
func (p *ParticleSystem) ActiveCount() int {
	return len(p.slots) - len(p.free)
}

// Burst emits a shower of particles at the hit position. The count grows
// mildly with punch speed and is capped; exhausted pool slots are skipped.
func (p *ParticleSystem) Burst(pos Vec3, kind TargetKind, punchSpeed float64) {
	count := p.tuning.ParticleBaseBurst
	count += int(punchSpeed / p.tuning.VelocityThreshold * 4)
	if count > p.tuning.ParticleMaxBurst {
		count = p.tuning.ParticleMaxBurst
	}

	speedFactor := 1 + punchSpeed/p.tuning.VelocityThreshold*0.5
	for i := 0; i < count; i++ {
		if len(p.free) == 0 {
			return
		}
		idx := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]

		// Random point on the unit sphere for the burst direction.
		theta := p.rng.Float64() * 2 * math.Pi
		z := p.rng.Float64()*2 - 1
		r := math.Sqrt(1 - z*z)
		dir := Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}

		decay := p.tuning.ParticleDecayMin +
			p.rng.Float64()*(p.tuning.ParticleDecayMax-p.tuning.ParticleDecayMin)

		p.slots[idx] = Particle{
			Position: pos,
			Velocity: dir.Scale(p.tuning.ParticleSpread * speedFactor * (0.5 + p.rng.Float64()*0.5)),
			Life:     1,
			Decay:    decay,
			Kind:     kind,
			Flash:    i == 0, // first particle of a burst is the flash
			active:   true,
		}
	}
}

// Tick advances every live particle by one fixed step: drag damping,
// gravity on non-flash kinds, and life decay. Particles die at life <= 0.
// Decay is per tick, not per dt, so a particle with life 1.0 and decay d
// survives exactly ceil(1/d) ticks.
func (p *ParticleSystem) Tick(dt float64) {
	for i := range p.slots {
		pt := &p.slots[i]
		if !pt.active {
			continue
		}
		pt.Velocity = pt.Velocity.Scale(p.tuning.ParticleDrag)
		if !pt.Flash {
			pt.Velocity.Y -= p.tuning.ParticleGravity
		}
		pt.Position = pt.Position.Add(pt.Velocity.Scale(dt))
		pt.Life -= pt.Decay
		if pt.Life <= 0 {
			pt.active = false
			p.free = append(p.free, i)
		}
	}
}

// ForEachActive calls fn for every live particle.
func (p *ParticleSystem) ForEachActive(fn func(*Particle)) {
	for i := range p.slots {
		if p.slots[i].active {
			fn(&p.slots[i])
		}
	}
}
