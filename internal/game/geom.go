// Package game implements the punchdrop game core: punch detection from
// hand samples, the falling-target pool, collision resolution, scoring,
// and the particle system. All state in this package is owned by a single
// update loop; see Engine.
package game

import "math"

// Vec3 represents a point or direction in the play volume.
// The camera sits at the origin looking down the negative Z axis, so
// targets spawn at a large negative Z and drift toward Z = 0.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3   { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3   { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }

// Normalize returns a unit-length copy of v. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// Camera is a pinhole projection between the play volume and the screen.
// It is the only piece of geometry shared by spawning, collision
// resolution, and the render snapshot.
type Camera struct {
	Width      float64 // screen width in pixels
	Height     float64 // screen height in pixels
	FOVDegrees float64 // vertical field of view
}

// NewCamera returns a Camera for the given screen size and vertical FOV.
func NewCamera(width, height, fovDegrees float64) Camera {
	return Camera{Width: width, Height: height, FOVDegrees: fovDegrees}
}

// focal returns the focal length in pixels derived from the vertical FOV.
func (c Camera) focal() float64 {
	return (c.Height / 2) / math.Tan(c.FOVDegrees*math.Pi/360)
}

// Project maps a world position to screen pixels and view-space depth.
// ok is false for points at or behind the camera plane, which have no
// meaningful projection.
func (c Camera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	depth = -p.Z
	if depth <= 0 {
		return 0, 0, depth, false
	}
	f := c.focal()
	sx = c.Width/2 + p.X*f/depth
	sy = c.Height/2 - p.Y*f/depth
	return sx, sy, depth, true
}

// ScreenRay returns the unit direction of the ray from the camera origin
// through the given screen pixel.
func (c Camera) ScreenRay(sx, sy float64) Vec3 {
	f := c.focal()
	return Vec3{
		X: (sx - c.Width/2) / f,
		Y: (c.Height/2 - sy) / f,
		Z: -1,
	}.Normalize()
}

// raySphere intersects a ray from the origin with a sphere and returns the
// nearest positive distance along the ray, or ok=false when the ray misses.
func raySphere(dir, center Vec3, radius float64) (t float64, ok bool) {
	// Ray origin is the camera origin, so the usual oc term is -center.
	b := -2 * dir.Dot(center)
	cc := center.Dot(center) - radius*radius
	disc := b*b - 4*cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t = (-b - sq) / 2
	if t < 0 {
		t = (-b + sq) / 2
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
