package game

import "math"

// Scoring policy: points are the target's value scaled by a velocity
// bonus, points = round(value * min(cap, speed/threshold)). The combo
// streak is tracked and reported (UI, round record) but deliberately does
// not multiply points; the two modifiers are never combined.

// ApplyHit applies a resolved hit to the round state and returns the
// points awarded (negative for danger targets). The running score is
// clamped at zero and never goes negative.
func (rs *RoundState) ApplyHit(t *Target, punchSpeed float64, nowMs int64, tuning Tuning) int {
	factor := punchSpeed / tuning.VelocityThreshold
	if factor > tuning.VelocityCapMult {
		factor = tuning.VelocityCapMult
	}
	points := int(math.Round(float64(t.PointValue) * factor))

	if points > 0 {
		if rs.lastPositiveMs > 0 && nowMs-rs.lastPositiveMs <= tuning.ComboTimeoutMs {
			rs.Combo++
		} else {
			rs.Combo = 1
		}
		rs.lastPositiveMs = nowMs
		if rs.Combo > rs.HighestCombo {
			rs.HighestCombo = rs.Combo
		}
	} else {
		rs.Combo = 1
		rs.lastPositiveMs = 0
	}

	rs.Score += points
	if rs.Score < 0 {
		rs.Score = 0
	}
	rs.HitCounts[t.Kind]++
	return points
}

// decayCombo resets an expired streak so the UI never shows a stale
// multiplier between hits.
func (rs *RoundState) decayCombo(nowMs int64, tuning Tuning) {
	if rs.Combo > 1 && nowMs-rs.lastPositiveMs > tuning.ComboTimeoutMs {
		rs.Combo = 1
		rs.lastPositiveMs = 0
	}
}
