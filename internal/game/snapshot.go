package game

// Snapshot is the authoritative per-tick projection of the scene handed
// to the renderer and the HUD. The renderer owns no game state; it only
// draws what the snapshot says.
type Snapshot struct {
	Active    bool           `json:"active"`
	Score     int            `json:"score"`
	TimeLeft  int            `json:"time_left"` // whole seconds, rounded up
	Combo     int            `json:"combo"`
	GameSpeed float64        `json:"game_speed"`
	Targets   []TargetView   `json:"targets"`
	Particles []ParticleView `json:"particles"`
}

// TargetView is the render-facing shape of an active target.
type TargetView struct {
	ID        int64   `json:"id"`
	Kind      string  `json:"kind"`
	Position  Vec3    `json:"position"`
	RotationY float64 `json:"rotation_y"`
	Scale     float64 `json:"scale"`
	Radius    float64 `json:"radius"`
}

// ParticleView is the render-facing shape of a live particle. Opacity and
// scale are driven directly by remaining life.
type ParticleView struct {
	Position Vec3    `json:"position"`
	Kind     string  `json:"kind"`
	Opacity  float64 `json:"opacity"`
	Scale    float64 `json:"scale"`
}

// Snapshot builds the render projection for the current tick. Call from
// the update goroutine only.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Active:    e.state.Active,
		Score:     e.state.Score,
		TimeLeft:  e.state.TimeLeftSeconds(),
		Combo:     e.state.Combo,
		GameSpeed: e.state.GameSpeed,
		Targets:   make([]TargetView, 0, e.targets.ActiveCount()),
		Particles: make([]ParticleView, 0, e.particles.ActiveCount()),
	}

	e.targets.ForEachActive(func(t *Target) {
		snap.Targets = append(snap.Targets, TargetView{
			ID:        t.ID,
			Kind:      t.Kind.String(),
			Position:  t.Position,
			RotationY: t.RotationY,
			Scale:     t.Scale,
			Radius:    t.Radius,
		})
	})

	e.particles.ForEachActive(func(p *Particle) {
		snap.Particles = append(snap.Particles, ParticleView{
			Position: p.Position,
			Kind:     p.Kind.String(),
			Opacity:  p.Life,
			Scale:    0.3 + 0.7*p.Life,
		})
	})

	return snap
}
