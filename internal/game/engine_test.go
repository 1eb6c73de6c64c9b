package game

import (
	"math/rand"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(DefaultTuning(), rand.New(rand.NewSource(seed)))
}

// expectedPoints is the velocity-bonus score for a threshold-speed punch,
// after clamping at zero.
func expectedPoints(kind string) int {
	switch kind {
	case "normal":
		return 10
	case "bonus":
		return 50
	case "danger":
		return 0 // -20 clamped from a zero score
	case "explosive":
		return 30
	}
	return -1
}

func TestEngine_RoundLifecycle(t *testing.T) {
	e := newTestEngine(1)

	t.Run("fresh round state", func(t *testing.T) {
		e.StartRound()
		st := e.State()
		if !st.Active {
			t.Error("round not active after start")
		}
		if st.Score != 0 {
			t.Errorf("score = %d, want 0", st.Score)
		}
		if st.TimeLeftSeconds() != 60 {
			t.Errorf("time left = %d, want 60", st.TimeLeftSeconds())
		}
		if st.Combo != 1 {
			t.Errorf("combo = %d, want 1", st.Combo)
		}
	})

	t.Run("round ends when the clock runs out", func(t *testing.T) {
		e.StartRound()
		var result *RoundResult
		e.OnRoundEnd(func(r RoundResult) { result = &r })

		now := int64(0)
		for i := 0; i < 61*10; i++ {
			now += 100
			e.Tick(0.1, now)
		}
		if e.State().Active {
			t.Fatal("round still active after 61 simulated seconds")
		}
		if result == nil {
			t.Fatal("round end callback never fired")
		}
		if result.DurationSeconds != e.Tuning().RoundSeconds {
			t.Errorf("duration = %f, want full round", result.DurationSeconds)
		}
	})

	t.Run("ticks after round end are no-ops", func(t *testing.T) {
		st := e.State()
		e.Tick(0.1, 999999)
		if e.State() != st {
			t.Error("state mutated after round end")
		}
	})

	t.Run("restart resets everything", func(t *testing.T) {
		e.RestartRound()
		st := e.State()
		if !st.Active || st.Score != 0 || len(e.Snapshot().Targets) != 0 {
			t.Errorf("restart left stale state: %+v", st)
		}
	})
}

func TestEngine_InjectPunchScoresTarget(t *testing.T) {
	e := newTestEngine(2)
	e.StartRound()

	// The first spawn happens on the first tick.
	e.Tick(0.001, 100)
	snap := e.Snapshot()
	if len(snap.Targets) != 1 {
		t.Fatalf("targets after first tick = %d, want 1", len(snap.Targets))
	}
	tv := snap.Targets[0]

	cam := NewCamera(e.Tuning().ScreenWidth, e.Tuning().ScreenHeight, e.Tuning().FOVDegrees)
	sx, sy, _, ok := cam.Project(tv.Position)
	if !ok {
		t.Fatal("target does not project")
	}

	e.InjectPunch(sx, sy, e.Tuning().VelocityThreshold, 200)

	want := expectedPoints(tv.Kind)
	if got := e.State().Score; got != want {
		t.Errorf("score after punching a %s target = %d, want %d", tv.Kind, got, want)
	}
	if len(e.Snapshot().Targets) != 0 {
		t.Error("hit target still in the snapshot")
	}
	if tv.Kind != "danger" && len(e.Snapshot().Particles) == 0 {
		t.Error("hit emitted no particles")
	}
}

func TestEngine_SampleHandoff(t *testing.T) {
	e := newTestEngine(3)
	e.StartRound()

	// Spawn one target and aim the tracked hand's swing at it.
	e.Tick(0.001, 10)
	snap := e.Snapshot()
	if len(snap.Targets) != 1 {
		t.Fatalf("targets = %d, want 1", len(snap.Targets))
	}
	cam := NewCamera(e.Tuning().ScreenWidth, e.Tuning().ScreenHeight, e.Tuning().FOVDegrees)
	sx, sy, _, _ := cam.Project(snap.Targets[0].Position)

	// Three samples at 2000 px/s raw; smoothing crosses the threshold on
	// the third, with the hand exactly over the target.
	offsets := []float64{-320, -160, 0}
	now := int64(10000)
	for i, off := range offsets {
		ts := 10000 + int64(i*80)
		e.OfferSamples([]HandSample{sampleAt(HandRight, sx+off, sy, ts)})
		now += 10
		e.Tick(0.001, now)
	}

	if e.State().Score == 0 && e.State().HitCounts[KindDanger] == 0 {
		t.Error("tracked swing over a target produced no hit")
	}

	t.Run("latest batch wins", func(t *testing.T) {
		e.OfferSamples([]HandSample{sampleAt(HandLeft, 0, 0, 1000)})
		e.OfferSamples([]HandSample{sampleAt(HandLeft, 100, 100, 1010)})
		// Only the second batch is pending; consuming it must not panic
		// and the first batch is simply gone.
		e.Tick(0.001, 2000)
	})
}

func TestEngine_MissesCount(t *testing.T) {
	e := newTestEngine(4)
	e.StartRound()

	// Let targets fall un-hit for twenty simulated seconds.
	now := int64(0)
	for i := 0; i < 200; i++ {
		now += 100
		e.Tick(0.1, now)
	}
	if e.State().Misses == 0 {
		t.Error("un-hit targets never counted as misses")
	}
}

func TestEngine_SnapshotShape(t *testing.T) {
	e := newTestEngine(5)
	e.StartRound()
	e.Tick(0.001, 10)

	snap := e.Snapshot()
	if !snap.Active {
		t.Error("snapshot not active")
	}
	if snap.TimeLeft != 60 {
		t.Errorf("snapshot time left = %d, want 60", snap.TimeLeft)
	}
	for _, tv := range snap.Targets {
		if tv.Kind == "unknown" {
			t.Errorf("target %d has unknown kind", tv.ID)
		}
		if tv.Radius <= 0 || tv.Scale <= 0 {
			t.Errorf("target %d has degenerate geometry: %+v", tv.ID, tv)
		}
	}
}
