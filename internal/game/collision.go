package game

import "math"

// Resolver maps punch events to targets. It first tries an exact ray
// intersection through the punch's screen position; when the tracker's
// reported position lags the true swing and the ray misses everything, a
// projected screen-distance fallback picks the closest near-field target
// instead. At most one target is resolved per punch.
type Resolver struct {
	tuning Tuning
	cam    Camera
}

// NewResolver returns a resolver projecting through the given camera.
func NewResolver(tuning Tuning, cam Camera) *Resolver {
	return &Resolver{tuning: tuning, cam: cam}
}

// Resolve picks the best-matching target for the punch, marks it hit, and
// removes it from the active set. Returns nil when nothing was in reach.
func (r *Resolver) Resolve(ev PunchEvent, targets *TargetSet) *Target {
	if hit := r.resolveRay(ev, targets); hit != nil {
		targets.MarkHit(hit)
		return hit
	}
	if hit := r.resolveScreen(ev, targets); hit != nil {
		targets.MarkHit(hit)
		return hit
	}
	return nil
}

// resolveRay intersects the punch ray with every active target sphere and
// returns the closest intersection along the ray.
func (r *Resolver) resolveRay(ev PunchEvent, targets *TargetSet) *Target {
	dir := r.cam.ScreenRay(ev.ScreenX, ev.ScreenY)

	var best *Target
	bestT := math.Inf(1)
	targets.ForEachActive(func(t *Target) {
		if t.Hit {
			return
		}
		dist, ok := raySphere(dir, t.Position, t.Radius)
		if ok && dist < bestT {
			bestT = dist
			best = t
		}
	})
	return best
}

// resolveScreen is the forgiving path: project each target to the screen
// and accept the pixel-closest one within the hit radius, as long as it
// sits inside the near-field depth band. The band keeps far targets,
// visually stacked behind closer ones, from being hit through the pack.
func (r *Resolver) resolveScreen(ev PunchEvent, targets *TargetSet) *Target {
	var best *Target
	bestDist := r.tuning.HitPixelRadius
	targets.ForEachActive(func(t *Target) {
		if t.Hit {
			return
		}
		sx, sy, depth, ok := r.cam.Project(t.Position)
		if !ok || depth > r.tuning.NearFieldDepth {
			return
		}
		d := math.Hypot(sx-ev.ScreenX, sy-ev.ScreenY)
		if d < bestDist {
			bestDist = d
			best = t
		}
	})
	return best
}
