package game

import (
	"math"
	"math/rand"
)

// TargetKind classifies a falling target and decides its score value,
// size, and look.
type TargetKind uint8

const (
	KindNormal TargetKind = iota
	KindBonus
	KindDanger
	KindExplosive
	numKinds
)

// String returns the wire name of the kind, used in snapshots and the
// round record.
func (k TargetKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindBonus:
		return "bonus"
	case KindDanger:
		return "danger"
	case KindExplosive:
		return "explosive"
	}
	return "unknown"
}

// kindSpec is the per-kind tuning row. Weights are relative spawn odds;
// pulse marks kinds with the cosmetic scale oscillation.
type kindSpec struct {
	points    int
	radius    float64
	weight    int
	driftBias float64 // multiplier on lateral drift at spawn
	pulse     bool
}

var kindTable = [numKinds]kindSpec{
	KindNormal:    {points: 10, radius: 1.2, weight: 6, driftBias: 1.0},
	KindBonus:     {points: 50, radius: 0.8, weight: 1, driftBias: 1.6, pulse: true},
	KindDanger:    {points: -20, radius: 1.4, weight: 2, driftBias: 0.8},
	KindExplosive: {points: 30, radius: 1.0, weight: 2, driftBias: 1.2, pulse: true},
}

// Target is one slot in the target arena. Position/velocity are mutated
// every tick; Hit flips exactly once, when the resolver claims the target.
type Target struct {
	ID         int64
	Kind       TargetKind
	Position   Vec3
	Velocity   Vec3
	RotationY  float64
	Scale      float64
	PointValue int
	Radius     float64
	Hit        bool

	active bool
	age    float64
}

// TargetSet is a fixed-capacity arena of targets with an explicit free
// list. Retired slots are reused rather than reallocated, so a round
// never allocates per spawn. Not safe for concurrent use.
type TargetSet struct {
	tuning    Tuning
	rng       *rand.Rand
	slots     []Target
	free      []int
	lastSpawn float64 // elapsed seconds of the previous spawn
	nextID    int64
	totalW    int
}

// NewTargetSet allocates the arena up front with every slot on the free
// list.
func NewTargetSet(tuning Tuning, rng *rand.Rand) *TargetSet {
	s := &TargetSet{
		tuning: tuning,
		rng:    rng,
		slots:  make([]Target, tuning.MaxTargets),
		free:   make([]int, 0, tuning.MaxTargets),
	}
	for _, spec := range kindTable {
		s.totalW += spec.weight
	}
	s.Reset()
	return s
}

// Reset retires every target and rewinds the spawn clock.
func (s *TargetSet) Reset() {
	s.free = s.free[:0]
	for i := range s.slots {
		s.slots[i] = Target{}
		s.free = append(s.free, i)
	}
	s.lastSpawn = -s.tuning.BaseSpawnInterval // first spawn is immediate
}

// ActiveCount returns the number of live targets.
func (s *TargetSet) ActiveCount() int {
	return len(s.slots) - len(s.free)
}

// SpawnInterval returns the seconds between spawns at the given elapsed
// round time. It decreases linearly and is clamped to the floor.
func (s *TargetSet) SpawnInterval(elapsed float64) float64 {
	iv := s.tuning.BaseSpawnInterval - elapsed*s.tuning.SpawnRampPerSecond
	return math.Max(s.tuning.SpawnIntervalFloor, iv)
}

// GameSpeed returns the difficulty speed multiplier at the given elapsed
// round time. It increases linearly and is clamped to the ceiling.
func (s *TargetSet) GameSpeed(elapsed float64) float64 {
	sp := s.tuning.BaseGameSpeed + elapsed*s.tuning.SpeedRampPerSecond
	return math.Min(s.tuning.GameSpeedCeiling, sp)
}

// TrySpawn activates a free slot when the spawn interval has elapsed and
// the arena is not full. Pool exhaustion is a silent no-op.
func (s *TargetSet) TrySpawn(elapsed float64) *Target {
	if elapsed-s.lastSpawn <= s.SpawnInterval(elapsed) {
		return nil
	}
	if len(s.free) == 0 {
		return nil
	}

	idx := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]
	s.lastSpawn = elapsed
	s.nextID++

	kind := s.rollKind()
	spec := kindTable[kind]
	speed := s.GameSpeed(elapsed)

	t := &s.slots[idx]
	*t = Target{
		ID:   s.nextID,
		Kind: kind,
		Position: Vec3{
			X: (s.rng.Float64()*2 - 1) * s.tuning.SpawnWindowX,
			Y: (s.rng.Float64()*2 - 1) * s.tuning.SpawnWindowY,
			Z: -s.tuning.SpawnDepth,
		},
		Velocity: Vec3{
			X: (s.rng.Float64()*2 - 1) * s.tuning.DriftSpeed * spec.driftBias,
			Y: (s.rng.Float64()*2 - 1) * s.tuning.DriftSpeed * spec.driftBias * 0.5,
			Z: s.tuning.FallSpeed * speed,
		},
		Scale:      1,
		PointValue: spec.points,
		Radius:     spec.radius,
		active:     true,
	}
	return t
}

// rollKind draws a target kind from the weighted table.
func (s *TargetSet) rollKind() TargetKind {
	n := s.rng.Intn(s.totalW)
	for kind := TargetKind(0); kind < numKinds; kind++ {
		n -= kindTable[kind].weight
		if n < 0 {
			return kind
		}
	}
	return KindNormal
}

// Tick integrates every active target and retires those that crossed the
// near plane un-hit. It returns the number of targets missed this tick.
func (s *TargetSet) Tick(dt, gameSpeed float64) (missed int) {
	for i := range s.slots {
		t := &s.slots[i]
		if !t.active {
			continue
		}
		t.age += dt
		t.Position = t.Position.Add(t.Velocity.Scale(dt * gameSpeed))
		t.RotationY += dt * 2

		// Pulse is cosmetic only; the collision radius never changes.
		if kindTable[t.Kind].pulse {
			t.Scale = 1 + 0.15*math.Sin(t.age*6)
		}

		if t.Position.Z > -s.tuning.NearPlane {
			s.retire(i)
			missed++
		}
	}
	return missed
}

// MarkHit flags a target as hit and retires it immediately, before any
// other subsystem can observe it as active. A retired or already-hit
// target cannot be hit again.
func (s *TargetSet) MarkHit(t *Target) bool {
	if t == nil || !t.active || t.Hit {
		return false
	}
	t.Hit = true
	for i := range s.slots {
		if &s.slots[i] == t {
			s.retire(i)
			return true
		}
	}
	return false
}

func (s *TargetSet) retire(i int) {
	s.slots[i].active = false
	s.free = append(s.free, i)
}

// ForEachActive calls fn for every live target. fn must not spawn or
// retire targets.
func (s *TargetSet) ForEachActive(fn func(*Target)) {
	for i := range s.slots {
		if s.slots[i].active {
			fn(&s.slots[i])
		}
	}
}
