// Package detector provides hand tracking interfaces and types for the
// punchdrop pipeline.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// normalizedBound is the cutoff for deciding a hand arrived in the
// tracker's normalized 0-1 convention rather than frame pixels. A small
// margin above 1 tolerates landmarks slightly outside the frame.
const normalizedBound = 1.5

// IsNormalized reports whether the landmark coordinates look like the
// tracker's normalized 0-1 convention. MediaPipe emits normalized
// coordinates; other trackers may emit frame pixels, so the convention is
// detected rather than assumed.
func (h *HandLandmarks) IsNormalized() bool {
	for i := 0; i < NumLandmarks; i++ {
		p := h.Points[i]
		if p.X > normalizedBound || p.X < -normalizedBound ||
			p.Y > normalizedBound || p.Y < -normalizedBound {
			return false
		}
	}
	return true
}

// ToPixels returns a copy of the landmarks converted to frame-pixel
// coordinates for the given frame size. Landmarks already in pixels are
// returned unchanged, so callers can funnel every hand through this one
// path and work in a single convention.
func (h *HandLandmarks) ToPixels(width, height float64) HandLandmarks {
	out := *h
	if !h.IsNormalized() {
		return out
	}
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X = h.Points[i].X * width
		out.Points[i].Y = h.Points[i].Y * height
	}
	return out
}
