package gesture

import (
	"math"

	"github.com/ayusman/signetic/internal/detector"
)

// WaveConfig tunes the wave detector.
type WaveConfig struct {
	// Cycles is the number of direction reversals that emit the word.
	Cycles int `yaml:"cycles" json:"cycles"`
	// NoiseFloor is the per-frame wrist movement, in hand sizes, below
	// which the hand counts as still.
	NoiseFloor float64 `yaml:"noise_floor" json:"noise_floor"`
	// StillFrames is how many still frames are tolerated before the
	// cycle count is dropped.
	StillFrames int `yaml:"still_frames" json:"still_frames"`
}

// DefaultWaveConfig returns the standard wave tuning.
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{Cycles: 4, NoiseFloor: 0.05, StillFrames: 10}
}

// WaveTracker follows horizontal wrist oscillation of an open hand across
// frames. It is not safe for concurrent use.
type WaveTracker struct {
	cfg WaveConfig

	tracking bool
	prevX    float64
	lastDir  int
	cycles   int
	still    int
}

// NewWaveTracker creates a tracker with cfg.
func NewWaveTracker(cfg WaveConfig) *WaveTracker {
	return &WaveTracker{cfg: cfg}
}

// Observe feeds one frame. open must be true only while all four fingers
// are extended; otherwise all motion state is dropped.
func (w *WaveTracker) Observe(wristX, handSize float64, open bool) {
	if !open || !(handSize > 0) {
		w.Reset()
		return
	}
	if !w.tracking {
		w.tracking = true
		w.prevX = wristX
		return
	}

	dx := wristX - w.prevX
	w.prevX = wristX
	if math.Abs(dx) > w.cfg.NoiseFloor*handSize {
		dir := 1
		if dx < 0 {
			dir = -1
		}
		if w.lastDir != 0 && dir != w.lastDir {
			w.cycles++
		}
		w.lastDir = dir
		w.still = 0
		return
	}

	w.still++
	if w.still > w.cfg.StillFrames {
		w.cycles = 0
		w.lastDir = 0
	}
}

// ObserveHand derives the tracker inputs from a landmark set. Incomplete
// hands reset the tracker.
func (w *WaveTracker) ObserveHand(hand *detector.HandLandmarks, t Thresholds) {
	if !hand.Complete() {
		w.Reset()
		return
	}
	p := hand.Points
	hs := HandSize(p, t.DepthWeight)
	open := hs > 0
	for _, f := range [][2]int{
		{detector.IndexTip, detector.IndexMCP},
		{detector.MiddleTip, detector.MiddleMCP},
		{detector.RingTip, detector.RingMCP},
		{detector.PinkyTip, detector.PinkyMCP},
	} {
		open = open && IsExtended(p, f[0], f[1], hs, t.ExtensionRatio, t.DepthWeight)
	}
	w.Observe(p[detector.Wrist].X, hs, open)
}

// Cycles returns the oscillations counted so far.
func (w *WaveTracker) Cycles() int { return w.cycles }

// ResetCycles zeroes the cycle count but keeps tracking the hand.
func (w *WaveTracker) ResetCycles() { w.cycles = 0 }

// Reset drops all motion state.
func (w *WaveTracker) Reset() {
	w.tracking = false
	w.prevX = 0
	w.lastDir = 0
	w.cycles = 0
	w.still = 0
}
