package game

import (
	"math/rand"
	"sync/atomic"
)

// Engine ties the subsystems together and owns all mutable game state.
//
// Every method except OfferSamples must be called from the single update
// goroutine. OfferSamples is the one concurrent entry point: the hand
// sampler runs on its own slower cadence and publishes each batch through
// a single-slot latest-wins handoff, so a tick never blocks on pose
// inference and a slow tick simply skips to the freshest batch.
type Engine struct {
	tuning    Tuning
	cam       Camera
	punches   *PunchDetector
	targets   *TargetSet
	resolver  *Resolver
	particles *ParticleSystem
	state     RoundState

	pending atomic.Pointer[[]HandSample]

	onRoundEnd func(RoundResult)
}

// NewEngine builds an engine with pre-allocated pools. The rng drives
// spawn placement and particle scatter; tests pass a seeded source.
func NewEngine(tuning Tuning, rng *rand.Rand) *Engine {
	cam := NewCamera(tuning.ScreenWidth, tuning.ScreenHeight, tuning.FOVDegrees)
	return &Engine{
		tuning:    tuning,
		cam:       cam,
		punches:   NewPunchDetector(tuning),
		targets:   NewTargetSet(tuning, rng),
		resolver:  NewResolver(tuning, cam),
		particles: NewParticleSystem(tuning, rng),
	}
}

// Tuning returns the engine's tuning values.
func (e *Engine) Tuning() Tuning { return e.tuning }

// OnRoundEnd registers the callback invoked with the summary of every
// finished round. Set it before the first round starts.
func (e *Engine) OnRoundEnd(fn func(RoundResult)) { e.onRoundEnd = fn }

// State returns a copy of the current round state.
func (e *Engine) State() RoundState { return e.state }

// StartRound resets every pool and begins a fresh round.
func (e *Engine) StartRound() {
	e.punches.Reset()
	e.targets.Reset()
	e.particles.Reset()
	e.pending.Store(nil)
	e.state = newRoundState(e.tuning)
}

// EndRound closes the running round and reports its result. Calling it on
// an idle engine is a no-op returning the zero result.
func (e *Engine) EndRound() RoundResult {
	if !e.state.Active {
		return RoundResult{}
	}
	e.state.Active = false
	res := e.state.result(e.tuning)
	if e.onRoundEnd != nil {
		e.onRoundEnd(res)
	}
	return res
}

// RestartRound ends any running round and immediately starts a new one.
func (e *Engine) RestartRound() {
	e.EndRound()
	e.StartRound()
}

// OfferSamples publishes a batch of hand samples for the next tick.
// Safe to call from the sampler goroutine; if the previous batch was not
// yet consumed it is replaced (latest wins).
func (e *Engine) OfferSamples(batch []HandSample) {
	if len(batch) == 0 {
		return
	}
	e.pending.Store(&batch)
}

// InjectPunch feeds a manual punch event, the fallback control for hosts
// without a working hand tracker. Call from the update goroutine.
func (e *Engine) InjectPunch(screenX, screenY, speed float64, nowMs int64) {
	if !e.state.Active {
		return
	}
	e.resolvePunch(PunchEvent{
		ScreenX:     screenX,
		ScreenY:     screenY,
		Speed:       speed,
		TimestampMs: nowMs,
	})
}

// Tick advances the round by dt seconds. It ramps difficulty, spawns and
// integrates targets, decays particles, consumes the freshest hand sample
// batch, and ends the round when the clock runs out.
func (e *Engine) Tick(dt float64, nowMs int64) {
	if !e.state.Active {
		return
	}

	e.state.elapsed += dt
	e.state.TimeLeft -= dt
	e.state.SpawnInterval = e.targets.SpawnInterval(e.state.elapsed)
	e.state.GameSpeed = e.targets.GameSpeed(e.state.elapsed)
	e.state.decayCombo(nowMs, e.tuning)

	e.targets.TrySpawn(e.state.elapsed)
	e.state.Misses += e.targets.Tick(dt, e.state.GameSpeed)
	e.particles.Tick(dt)

	if batch := e.pending.Swap(nil); batch != nil {
		for _, sample := range *batch {
			if ev := e.punches.Observe(sample, nowMs); ev != nil {
				e.resolvePunch(*ev)
			}
		}
	}

	if e.state.TimeLeft <= 0 {
		e.state.TimeLeft = 0
		e.EndRound()
	}
}

// resolvePunch runs one punch through collision and scoring. The target
// is removed from the active set by the resolver before scoring, so a
// second punch in the same tick can never double-score it.
func (e *Engine) resolvePunch(ev PunchEvent) {
	t := e.resolver.Resolve(ev, e.targets)
	if t == nil {
		return
	}
	e.state.ApplyHit(t, ev.Speed, ev.TimestampMs, e.tuning)
	e.particles.Burst(t.Position, t.Kind, ev.Speed)
	if t.Kind == KindExplosive {
		// Explosive targets get a second, wider shower.
		e.particles.Burst(t.Position, t.Kind, ev.Speed*1.5)
	}
}
