package game

import "math"

// RoundState is the authoritative state of one round. It is created at
// round start, mutated only by the engine tick, and summarized into a
// RoundResult when the round ends.
type RoundState struct {
	Score         int
	TimeLeft      float64 // seconds
	Active        bool
	GameSpeed     float64
	SpawnInterval float64
	Combo         int
	HighestCombo  int
	HitCounts     [numKinds]int
	Misses        int

	elapsed        float64
	lastPositiveMs int64
}

// newRoundState returns the state for a fresh round.
func newRoundState(tuning Tuning) RoundState {
	return RoundState{
		TimeLeft:      tuning.RoundSeconds,
		Active:        true,
		GameSpeed:     tuning.BaseGameSpeed,
		SpawnInterval: tuning.BaseSpawnInterval,
		Combo:         1,
	}
}

// TimeLeftSeconds returns the remaining time as whole seconds, rounded
// up, for the UI clock.
func (rs *RoundState) TimeLeftSeconds() int {
	if rs.TimeLeft <= 0 {
		return 0
	}
	return int(math.Ceil(rs.TimeLeft))
}

// RoundResult is the immutable summary of a finished round, handed to the
// store and to listeners.
type RoundResult struct {
	Score           int
	HighestCombo    int
	NormalHits      int
	BonusHits       int
	DangerHits      int
	ExplosiveHits   int
	Misses          int
	DurationSeconds float64
}

func (rs *RoundState) result(tuning Tuning) RoundResult {
	return RoundResult{
		Score:           rs.Score,
		HighestCombo:    rs.HighestCombo,
		NormalHits:      rs.HitCounts[KindNormal],
		BonusHits:       rs.HitCounts[KindBonus],
		DangerHits:      rs.HitCounts[KindDanger],
		ExplosiveHits:   rs.HitCounts[KindExplosive],
		Misses:          rs.Misses,
		DurationSeconds: tuning.RoundSeconds - math.Max(0, rs.TimeLeft),
	}
}

// TotalHits returns the number of targets hit during the round.
func (r RoundResult) TotalHits() int {
	return r.NormalHits + r.BonusHits + r.DangerHits + r.ExplosiveHits
}
