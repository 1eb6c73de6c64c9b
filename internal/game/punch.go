package game

import "math"

// Hand identifies a tracked hand slot. Slots keep independent motion
// state so both hands can punch without interfering with each other.
type Hand uint8

const (
	HandLeft Hand = iota
	HandRight
	numHands
)

// Keypoint names used by the punch detector. The sampler publishes
// whatever joints the tracker produced; only these two matter here.
const (
	KeypointIndexTip = "index_tip"
	KeypointWrist    = "wrist"
)

// Keypoint is a named joint position in screen pixels with the tracker's
// confidence for the detection.
type Keypoint struct {
	X          float64
	Y          float64
	Confidence float64
}

// HandSample is one observation of a hand from the pose tracker.
// Samples are immutable; a newer sample for the same slot supersedes the
// previous one.
type HandSample struct {
	Hand        Hand
	Keypoints   map[string]Keypoint
	TimestampMs int64
}

// PunchEvent is a debounced detection that a hand crossed the velocity
// threshold. It carries the hand's current screen position, not a
// prediction of where the punch will land.
type PunchEvent struct {
	ScreenX     float64
	ScreenY     float64
	Speed       float64 // px/s at detection time
	TimestampMs int64
}

// handMotion is the per-slot motion estimate. Velocity is exponentially
// smoothed and never reset except by Reset.
type handMotion struct {
	hasLast     bool
	lastX       float64
	lastY       float64
	lastMs      int64
	vx          float64
	vy          float64
	lastPunchMs int64
}

// PunchDetector turns successive hand samples into punch events.
// It is not safe for concurrent use; the engine owns it.
type PunchDetector struct {
	tuning Tuning
	slots  [numHands]handMotion
}

// NewPunchDetector returns a detector with empty motion state for both
// hand slots.
func NewPunchDetector(tuning Tuning) *PunchDetector {
	return &PunchDetector{tuning: tuning}
}

// Reset clears all motion state, including punch cooldowns. Called at
// round start so a previous round's swing cannot leak into the new one.
func (d *PunchDetector) Reset() {
	d.slots = [numHands]handMotion{}
}

// Observe ingests one hand sample and returns a PunchEvent when the
// smoothed hand speed crosses the threshold and the per-hand cooldown has
// elapsed. It returns nil otherwise.
//
// Samples missing both the index fingertip and the wrist are dropped
// without touching the slot's state, as are samples whose timestamp does
// not advance past the previous one.
func (d *PunchDetector) Observe(sample HandSample, nowMs int64) *PunchEvent {
	if int(sample.Hand) >= len(d.slots) {
		return nil
	}
	kp, ok := sample.Keypoints[KeypointIndexTip]
	if !ok {
		kp, ok = sample.Keypoints[KeypointWrist]
	}
	if !ok {
		return nil
	}

	slot := &d.slots[sample.Hand]
	if !slot.hasLast {
		slot.hasLast = true
		slot.lastX, slot.lastY = kp.X, kp.Y
		slot.lastMs = sample.TimestampMs
		return nil
	}

	dtMs := sample.TimestampMs - slot.lastMs
	if dtMs <= 0 {
		return nil
	}
	dt := float64(dtMs) / 1000

	rawVX := (kp.X - slot.lastX) / dt
	rawVY := (kp.Y - slot.lastY) / dt

	a := d.tuning.SmoothingAlpha
	slot.vx = slot.vx*a + rawVX*(1-a)
	slot.vy = slot.vy*a + rawVY*(1-a)
	slot.lastX, slot.lastY = kp.X, kp.Y
	slot.lastMs = sample.TimestampMs

	speed := math.Hypot(slot.vx, slot.vy)
	if speed <= d.tuning.VelocityThreshold {
		return nil
	}
	// lastPunchMs of 0 means the slot has never punched; only a real
	// previous punch starts the cooldown window.
	if slot.lastPunchMs != 0 && nowMs-slot.lastPunchMs <= d.tuning.PunchCooldownMs {
		return nil
	}

	slot.lastPunchMs = nowMs
	return &PunchEvent{
		ScreenX:     kp.X,
		ScreenY:     kp.Y,
		Speed:       speed,
		TimestampMs: nowMs,
	}
}
