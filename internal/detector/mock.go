package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It can return a fixed set of hands, play back a scripted sequence of
// frames, or fail with a preset error.
type MockDetector struct {
	hands    []HandLandmarks
	script   [][]HandLandmarks
	scriptAt int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by every Detect call. Clears any
// scripted sequence.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.script = nil
	m.scriptAt = 0
}

// SetScript queues per-call detection results: the first Detect returns
// frames[0], the second frames[1], and so on. Past the end of the script
// Detect returns no hands.
func (m *MockDetector) SetScript(frames [][]HandLandmarks) {
	m.script = frames
	m.scriptAt = 0
	m.hands = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands, the next scripted frame, or
// the preset error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.script != nil {
		if m.scriptAt >= len(m.script) {
			return nil, nil
		}
		hands := m.script[m.scriptAt]
		m.scriptAt++
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt returns landmarks for a hand whose index fingertip sits at the
// given normalized position. The rest of the hand hangs plausibly below
// and to the side of the fingertip so wrist-based fallbacks also work.
func HandAt(handedness string, x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	lm.Points[IndexTip] = Point3D{X: x, Y: y}
	lm.Points[IndexDIP] = Point3D{X: x, Y: y + 0.03}
	lm.Points[IndexPIP] = Point3D{X: x, Y: y + 0.06}
	lm.Points[IndexMCP] = Point3D{X: x, Y: y + 0.09}
	lm.Points[Wrist] = Point3D{X: x - 0.02, Y: y + 0.18}

	// Remaining fingers fan out from the index MCP; their exact layout
	// does not matter to the punch pipeline.
	base := lm.Points[IndexMCP]
	for i := ThumbCMC; i <= ThumbTip; i++ {
		lm.Points[i] = Point3D{X: base.X - 0.04 - 0.01*float64(i), Y: base.Y + 0.04}
	}
	for i := MiddleMCP; i <= PinkyTip; i++ {
		lm.Points[i] = Point3D{X: base.X + 0.02*float64(i-MiddleMCP+1), Y: base.Y + 0.02}
	}

	return lm
}

// SwingScript returns a scripted sequence of single-hand frames moving
// the fingertip from one normalized position to another in equal steps.
// Feeding the script through the sampling loop reproduces a punch.
func SwingScript(handedness string, fromX, toX, y float64, steps int) [][]HandLandmarks {
	if steps < 2 {
		steps = 2
	}
	frames := make([][]HandLandmarks, steps)
	for i := 0; i < steps; i++ {
		x := fromX + (toX-fromX)*float64(i)/float64(steps-1)
		frames[i] = []HandLandmarks{HandAt(handedness, x, y)}
	}
	return frames
}
