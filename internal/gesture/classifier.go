package gesture

import (
	"math"

	"github.com/ayusman/signetic/internal/detector"
)

// Rule names reported by Explain.
const (
	RuleIncomplete  = "incomplete"
	RuleWave        = "wave"
	RuleOrientation = "orientation"
	RuleHorizontal  = "horizontal"
	RuleSingle      = "single"
	RulePair        = "pair"
	RuleRing        = "ring"
	RuleF           = "f"
	RulePinky       = "pinky"
	RuleFist        = "fist"
	RuleDefault     = "default"
)

// WaveState is the part of the motion tracker the classifier consults.
// ResetCycles is called when the wave word is emitted.
type WaveState interface {
	Cycles() int
	ResetCycles()
}

// Result is a classification together with the rule that produced it.
type Result struct {
	Symbol Symbol `json:"symbol"`
	Rule   string `json:"rule"`
}

// features holds the per-frame values shared by every rule.
type features struct {
	p      []detector.Point3D
	hs     float64
	depth  float64
	index  bool
	middle bool
	ring   bool
	pinky  bool
}

// d returns the distance between two landmarks in hand sizes.
func (f *features) d(a, b int) float64 {
	return Distance(f.p[a], f.p[b], f.depth) / f.hs
}

// dx returns the signed horizontal offset a-b in hand sizes.
func (f *features) dx(a, b int) float64 {
	return (f.p[a].X - f.p[b].X) / f.hs
}

func (f *features) allFour() bool {
	return f.index && f.middle && f.ring && f.pinky
}

type rule struct {
	name  string
	match func(f *features, wave WaveState) (Symbol, bool)
}

// Classifier maps one landmark set to a Symbol by walking an ordered rule
// list; the first rule that matches wins. It holds no per-frame state and
// is safe for concurrent use as long as the WaveState passed in is not
// shared.
type Classifier struct {
	t          Thresholds
	waveCycles int
	rules      []rule
}

// NewClassifier builds a classifier over t. The wave word fires once the
// tracker has counted waveCycles oscillations.
func NewClassifier(t Thresholds, waveCycles int) *Classifier {
	c := &Classifier{t: t, waveCycles: waveCycles}
	c.rules = []rule{
		{RuleWave, c.matchWave},
		{RuleOrientation, c.matchOrientation},
		{RuleHorizontal, c.matchHorizontal},
		{RuleSingle, c.matchSingle},
		{RulePair, c.matchPair},
		{RuleRing, c.matchRing},
		{RuleF, c.matchF},
		{RulePinky, c.matchPinky},
		{RuleFist, c.matchFist},
	}
	return c
}

// Thresholds returns the table the classifier was built with.
func (c *Classifier) Thresholds() Thresholds { return c.t }

// RuleNames lists the rules in evaluation order.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.name
	}
	return names
}

// Classify returns the symbol for hand. wave may be nil.
func (c *Classifier) Classify(hand *detector.HandLandmarks, wave WaveState) Symbol {
	return c.Explain(hand, wave).Symbol
}

// Explain classifies hand and reports which rule fired. Incomplete or
// degenerate input yields SymbolNone.
func (c *Classifier) Explain(hand *detector.HandLandmarks, wave WaveState) Result {
	f, ok := c.features(hand)
	if !ok {
		return Result{Symbol: SymbolNone, Rule: RuleIncomplete}
	}
	for _, r := range c.rules {
		if s, ok := r.match(f, wave); ok {
			return Result{Symbol: s, Rule: r.name}
		}
	}
	return Result{Symbol: SymbolOpenHand, Rule: RuleDefault}
}

func (c *Classifier) features(hand *detector.HandLandmarks) (*features, bool) {
	if !hand.Complete() {
		return nil, false
	}
	p := hand.Points
	hs := HandSize(p, c.t.DepthWeight)
	if !(hs > 1e-9) || math.IsInf(hs, 0) {
		return nil, false
	}
	ext := func(tip, mcp int) bool {
		return IsExtended(p, tip, mcp, hs, c.t.ExtensionRatio, c.t.DepthWeight)
	}
	return &features{
		p:      p,
		hs:     hs,
		depth:  c.t.DepthWeight,
		index:  ext(detector.IndexTip, detector.IndexMCP),
		middle: ext(detector.MiddleTip, detector.MiddleMCP),
		ring:   ext(detector.RingTip, detector.RingMCP),
		pinky:  ext(detector.PinkyTip, detector.PinkyMCP),
	}, true
}

func (c *Classifier) matchWave(f *features, wave WaveState) (Symbol, bool) {
	if wave == nil || c.waveCycles <= 0 || !f.allFour() {
		return SymbolNone, false
	}
	if wave.Cycles() < c.waveCycles {
		return SymbolNone, false
	}
	wave.ResetCycles()
	return SymbolHello, true
}

// matchOrientation resolves the downward-pointing P and Q before the
// upright single and pair rules see the same extension pattern.
func (c *Classifier) matchOrientation(f *features, _ WaveState) (Symbol, bool) {
	if f.p[detector.IndexTip].Y <= f.p[detector.Wrist].Y {
		return SymbolNone, false
	}
	if !f.index || f.ring || f.pinky {
		return SymbolNone, false
	}
	if f.middle {
		return "P", true
	}
	return "Q", true
}

func (c *Classifier) matchHorizontal(f *features, _ WaveState) (Symbol, bool) {
	if !f.index || f.ring || f.pinky {
		return SymbolNone, false
	}
	dx := math.Abs(f.p[detector.IndexTip].X - f.p[detector.IndexMCP].X)
	dy := math.Abs(f.p[detector.IndexTip].Y - f.p[detector.IndexMCP].Y)
	if dx <= c.t.HorizontalRatio*dy {
		return SymbolNone, false
	}
	if f.middle {
		return "H", true
	}
	return "G", true
}

func (c *Classifier) matchSingle(f *features, _ WaveState) (Symbol, bool) {
	if !f.index || f.middle || f.ring || f.pinky {
		return SymbolNone, false
	}
	if f.d(detector.ThumbTip, detector.IndexMCP) > c.t.LThumbSpread {
		return "L", true
	}
	// X: the index knuckle is raised but the tip hooks back down to it.
	if (f.p[detector.IndexTip].Y-f.p[detector.IndexPIP].Y)/f.hs > -c.t.XHook {
		return "X", true
	}
	return "D", true
}

func (c *Classifier) matchPair(f *features, _ WaveState) (Symbol, bool) {
	if !f.index || !f.middle || f.ring || f.pinky {
		return SymbolNone, false
	}
	tipGap := f.dx(detector.IndexTip, detector.MiddleTip)
	knuckleGap := f.dx(detector.IndexMCP, detector.MiddleMCP)
	if tipGap*knuckleGap < 0 && math.Abs(tipGap) < c.t.RCrossGap {
		return "R", true
	}
	rise := (f.p[detector.MiddleMCP].Y - f.p[detector.ThumbTip].Y) / f.hs
	if rise > c.t.KThumbRise {
		return "K", true
	}
	if f.d(detector.IndexTip, detector.MiddleTip) > c.t.VTipGap {
		return "V", true
	}
	return "U", true
}

func (c *Classifier) matchRing(f *features, _ WaveState) (Symbol, bool) {
	if !f.index || !f.middle || !f.ring {
		return SymbolNone, false
	}
	if !f.pinky {
		return "W", true
	}
	if f.d(detector.ThumbTip, detector.IndexTip) < c.t.COpenThumbGap &&
		f.d(detector.IndexTip, detector.IndexMCP) < c.t.COpenIndexReach {
		return "C", true
	}
	lo := math.Min(f.p[detector.IndexMCP].X, f.p[detector.PinkyMCP].X)
	hi := math.Max(f.p[detector.IndexMCP].X, f.p[detector.PinkyMCP].X)
	margin := c.t.BPalmMargin * f.hs
	if x := f.p[detector.ThumbTip].X; x >= lo-margin && x <= hi+margin {
		return "B", true
	}
	return SymbolOpenHand, true
}

func (c *Classifier) matchF(f *features, _ WaveState) (Symbol, bool) {
	if f.index || !f.middle || !f.ring || !f.pinky {
		return SymbolNone, false
	}
	if f.d(detector.ThumbTip, detector.IndexTip) < c.t.FThumbTouch {
		return "F", true
	}
	return SymbolNone, false
}

func (c *Classifier) matchPinky(f *features, _ WaveState) (Symbol, bool) {
	if f.index || f.middle || f.ring || !f.pinky {
		return SymbolNone, false
	}
	if f.d(detector.ThumbTip, detector.PinkyTip) > c.t.YSpread {
		return "Y", true
	}
	return "I", true
}

// matchFist separates the closed-hand letters. The checks run in a fixed
// order because their regions overlap; S is the fallback.
func (c *Classifier) matchFist(f *features, _ WaveState) (Symbol, bool) {
	if f.index || f.middle || f.ring || f.pinky {
		return SymbolNone, false
	}

	if f.d(detector.IndexTip, detector.IndexMCP) > c.t.OIndexCurl {
		gap := f.d(detector.ThumbTip, detector.IndexTip)
		if gap < c.t.OThumbTouch {
			return "O", true
		}
		if gap <= c.t.CThumbGapMax {
			return "C", true
		}
	}

	if f.d(detector.ThumbTip, detector.MiddleTip) < c.t.SEThumbNear {
		if f.d(detector.ThumbTip, detector.MiddleMCP) < c.t.SThumbKnuckle {
			return "S", true
		}
		return "E", true
	}

	thumb := f.p[detector.ThumbTip]
	if math.Abs(f.dx(detector.ThumbTip, detector.IndexMCP)) > c.t.AThumbSide &&
		thumb.Y < f.p[detector.IndexMCP].Y {
		return "A", true
	}

	nearest, best := Symbol("S"), math.Inf(1)
	for _, k := range []struct {
		mcp int
		sym Symbol
	}{
		{detector.RingMCP, "M"},
		{detector.PinkyMCP, "M"},
		{detector.MiddleMCP, "N"},
		{detector.IndexMCP, "T"},
	} {
		if d := math.Abs(f.dx(detector.ThumbTip, k.mcp)); d < best {
			nearest, best = k.sym, d
		}
	}
	if best <= c.t.MNTBand {
		return nearest, true
	}
	return "S", true
}
