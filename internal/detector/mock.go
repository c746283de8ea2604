package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Reference geometry of the synthetic upright right hand, in normalized
// image coordinates (y grows downward). Wrist to middle MCP is 0.14.
var (
	baseWrist = Point3D{X: 0.50, Y: 0.80}
	baseMCP   = map[int]Point3D{
		IndexMCP:  {X: 0.545, Y: 0.67},
		MiddleMCP: {X: 0.50, Y: 0.66},
		RingMCP:   {X: 0.455, Y: 0.67},
		PinkyMCP:  {X: 0.415, Y: 0.69},
	}
)

const (
	curledReach   = 0.03
	extendedReach = 0.16
)

// HandBuilder assembles synthetic landmark sets for tests and demos.
// A fresh builder holds a fist: every finger curled, thumb resting
// beside the index knuckle.
type HandBuilder struct {
	points [NumLandmarks]Point3D
}

// NewHandBuilder returns a builder holding the base fist.
func NewHandBuilder() *HandBuilder {
	b := &HandBuilder{}
	b.points[Wrist] = baseWrist
	b.points[ThumbCMC] = Point3D{X: 0.56, Y: 0.77}
	b.points[ThumbMCP] = Point3D{X: 0.59, Y: 0.73}
	for mcp := range baseMCP {
		b.Finger(mcp, 0, curledReach)
	}
	return b.Thumb(0.62, 0.76)
}

// Finger places the tip of the finger whose knuckle index is mcp at the
// given offset from that knuckle. PIP and DIP are interpolated.
func (b *HandBuilder) Finger(mcp int, dx, dy float64) *HandBuilder {
	base := baseMCP[mcp]
	b.points[mcp] = base
	b.points[mcp+1] = Point3D{X: base.X + dx*0.4, Y: base.Y + dy*0.4}
	b.points[mcp+2] = Point3D{X: base.X + dx*0.7, Y: base.Y + dy*0.7}
	b.points[mcp+3] = Point3D{X: base.X + dx, Y: base.Y + dy}
	return b
}

// Bend moves the middle joint of the finger whose knuckle index is mcp to
// the given offset from that knuckle, leaving the tip in place.
func (b *HandBuilder) Bend(mcp int, dx, dy float64) *HandBuilder {
	base := b.points[mcp]
	pip := Point3D{X: base.X + dx, Y: base.Y + dy}
	tip := b.points[mcp+3]
	b.points[mcp+1] = pip
	b.points[mcp+2] = Point3D{X: (pip.X + tip.X) / 2, Y: (pip.Y + tip.Y) / 2}
	return b
}

// Extend straightens the listed fingers upward.
func (b *HandBuilder) Extend(mcps ...int) *HandBuilder {
	for _, mcp := range mcps {
		b.Finger(mcp, 0, -extendedReach)
	}
	return b
}

// Thumb places the thumb tip at an absolute position.
func (b *HandBuilder) Thumb(x, y float64) *HandBuilder {
	mcp := b.points[ThumbMCP]
	b.points[ThumbIP] = Point3D{X: (mcp.X + x) / 2, Y: (mcp.Y + y) / 2}
	b.points[ThumbTip] = Point3D{X: x, Y: y}
	return b
}

// Translate shifts every landmark.
func (b *HandBuilder) Translate(dx, dy float64) *HandBuilder {
	for i := range b.points {
		b.points[i].X += dx
		b.points[i].Y += dy
	}
	return b
}

// Build returns the assembled landmark set.
func (b *HandBuilder) Build() HandLandmarks {
	return HandLandmarks{
		Points:     append([]Point3D(nil), b.points[:]...),
		Handedness: "Right",
		Score:      0.95,
	}
}

// OpenPalmLandmarks returns an open hand with the thumb splayed outward.
func OpenPalmLandmarks() HandLandmarks {
	return NewHandBuilder().
		Extend(IndexMCP, MiddleMCP, RingMCP, PinkyMCP).
		Thumb(0.68, 0.62).
		Build()
}

// letterPoses holds one canonical synthetic pose per fingerspelled letter
// the classifier knows.
var letterPoses = map[string]func(*HandBuilder){
	"A": func(b *HandBuilder) { b.Thumb(0.60, 0.64) },
	"B": func(b *HandBuilder) {
		b.Extend(IndexMCP, MiddleMCP, RingMCP, PinkyMCP).Thumb(0.48, 0.70)
	},
	"C": func(b *HandBuilder) { b.Finger(IndexMCP, 0.025, -0.06).Thumb(0.60, 0.68) },
	"D": func(b *HandBuilder) { b.Extend(IndexMCP).Thumb(0.52, 0.69) },
	"E": func(b *HandBuilder) { b.Thumb(0.50, 0.72) },
	"F": func(b *HandBuilder) { b.Extend(MiddleMCP, RingMCP, PinkyMCP).Thumb(0.56, 0.70) },
	"G": func(b *HandBuilder) { b.Finger(IndexMCP, extendedReach, 0).Thumb(0.60, 0.64) },
	"H": func(b *HandBuilder) {
		b.Finger(IndexMCP, extendedReach, 0).Finger(MiddleMCP, extendedReach, 0).Thumb(0.60, 0.64)
	},
	"I": func(b *HandBuilder) { b.Finger(PinkyMCP, 0, -0.13).Thumb(0.48, 0.69) },
	"K": func(b *HandBuilder) {
		b.Finger(IndexMCP, 0.015, -extendedReach).Finger(MiddleMCP, -0.02, -extendedReach).Thumb(0.52, 0.60)
	},
	"L": func(b *HandBuilder) { b.Extend(IndexMCP).Thumb(0.70, 0.66) },
	"M": func(b *HandBuilder) { b.Thumb(0.455, 0.76) },
	"N": func(b *HandBuilder) { b.Thumb(0.50, 0.76) },
	"O": func(b *HandBuilder) { b.Finger(IndexMCP, 0.025, -0.06).Thumb(0.575, 0.625) },
	"P": func(b *HandBuilder) {
		b.Finger(IndexMCP, 0, extendedReach).Finger(MiddleMCP, 0, extendedReach).Thumb(0.56, 0.76)
	},
	"Q": func(b *HandBuilder) { b.Finger(IndexMCP, 0, extendedReach).Thumb(0.56, 0.76) },
	"R": func(b *HandBuilder) {
		b.Finger(IndexMCP, -0.035, -extendedReach).Finger(MiddleMCP, 0.035, -extendedReach).Thumb(0.48, 0.70)
	},
	"S": func(b *HandBuilder) { b.Thumb(0.50, 0.675) },
	"T": func(b *HandBuilder) { b.Thumb(0.545, 0.76) },
	"U": func(b *HandBuilder) {
		b.Finger(IndexMCP, -0.015, -extendedReach).Finger(MiddleMCP, 0.005, -extendedReach).Thumb(0.50, 0.70)
	},
	"V": func(b *HandBuilder) {
		b.Finger(IndexMCP, 0.035, -extendedReach).Finger(MiddleMCP, -0.04, -extendedReach).Thumb(0.50, 0.70)
	},
	"W": func(b *HandBuilder) { b.Extend(IndexMCP, MiddleMCP, RingMCP).Thumb(0.45, 0.72) },
	"X": func(b *HandBuilder) {
		b.Finger(IndexMCP, 0.02, -0.10).Bend(IndexMCP, 0, -0.11).Thumb(0.52, 0.69)
	},
	"Y": func(b *HandBuilder) { b.Finger(PinkyMCP, 0, -0.13).Thumb(0.70, 0.66) },
}

// LetterLandmarks returns the canonical synthetic pose for letter.
// The second result is false for letters without a pose.
func LetterLandmarks(letter string) (HandLandmarks, bool) {
	pose, ok := letterPoses[letter]
	if !ok {
		return HandLandmarks{}, false
	}
	b := NewHandBuilder()
	pose(b)
	return b.Build(), true
}

// Letters lists the letters LetterLandmarks can build, in no particular order.
func Letters() []string {
	letters := make([]string, 0, len(letterPoses))
	for l := range letterPoses {
		letters = append(letters, l)
	}
	return letters
}
