package typing

import (
	"errors"
	"fmt"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
)

// DisplayNoHand is shown while no hand is visible.
const DisplayNoHand = "Show Hand"

// Config holds the temporal tunables.
type Config struct {
	// WindowSize is the number of raw symbols the smoother votes over.
	WindowSize int `yaml:"window_size"`
	// StabilityThreshold is the run length at which a symbol is typed.
	StabilityThreshold int `yaml:"stability_threshold"`
}

// DefaultConfig returns the standard window and threshold.
func DefaultConfig() Config {
	return Config{WindowSize: 10, StabilityThreshold: 15}
}

// Validate checks that both values are usable.
func (c Config) Validate() error {
	var errs []error
	if c.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("window_size must be at least 1, got %d", c.WindowSize))
	}
	if c.StabilityThreshold < 1 {
		errs = append(errs, fmt.Errorf("stability_threshold must be at least 1, got %d", c.StabilityThreshold))
	}
	return errors.Join(errs...)
}

// EditOp is an external text edit.
type EditOp string

const (
	EditBackspace EditOp = "backspace"
	EditClear     EditOp = "clear"
	EditSpace     EditOp = "space"
)

// ErrUnknownEdit is returned by ParseEditOp for unsupported names.
var ErrUnknownEdit = errors.New("unknown edit operation")

// ParseEditOp converts a name into an EditOp.
func ParseEditOp(name string) (EditOp, error) {
	switch op := EditOp(name); op {
	case EditBackspace, EditClear, EditSpace:
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEdit, name)
}

// Status is the engine state after one frame or edit.
type Status struct {
	Present    bool           `json:"present"`
	Raw        gesture.Symbol `json:"raw"`
	Rule       string         `json:"rule,omitempty"`
	Smoothed   gesture.Symbol `json:"smoothed"`
	Stable     int            `json:"stable"`
	Threshold  int            `json:"threshold"`
	Text       string         `json:"text"`
	Committed  gesture.Symbol `json:"committed,omitempty"`
	AutoSpace  bool           `json:"auto_space,omitempty"`
	WaveCycles int            `json:"wave_cycles"`
	Display    string         `json:"display"`
	Edit       EditOp         `json:"edit,omitempty"`
}

// Engine is the per-frame typing state machine. It is not safe for
// concurrent use; Session gives it a single owner.
type Engine struct {
	cfg        Config
	classifier *gesture.Classifier
	wave       *gesture.WaveTracker
	smoother   *Smoother
	stability  Stabilizer
	text       TextBuffer

	// marker is the last committed symbol. It blocks re-typing the same
	// symbol until something neutral or different is seen.
	marker  gesture.Symbol
	present bool
	status  Status
}

// NewEngine creates an engine. wave may be nil to disable the wave word.
func NewEngine(cfg Config, classifier *gesture.Classifier, wave *gesture.WaveTracker) *Engine {
	if cfg.StabilityThreshold < 1 {
		cfg.StabilityThreshold = 1
	}
	e := &Engine{
		cfg:        cfg,
		classifier: classifier,
		wave:       wave,
		smoother:   NewSmoother(cfg.WindowSize),
	}
	e.status = Status{
		Raw:       gesture.SymbolNoHand,
		Smoothed:  gesture.SymbolNoHand,
		Threshold: cfg.StabilityThreshold,
		Display:   DisplayNoHand,
	}
	return e
}

// Status returns the state after the last Step or Apply.
func (e *Engine) Status() Status { return e.status }

// Text returns the typed text.
func (e *Engine) Text() string { return e.text.String() }

// Step processes one frame. A nil or incomplete hand counts as no hand.
func (e *Engine) Step(hand *detector.HandLandmarks) Status {
	if !hand.Complete() {
		return e.absent()
	}
	e.present = true

	var waveState gesture.WaveState
	if e.wave != nil {
		e.wave.ObserveHand(hand, e.classifier.Thresholds())
		waveState = e.wave
	}
	res := e.classifier.Explain(hand, waveState)

	st := Status{
		Present:   true,
		Raw:       res.Symbol,
		Rule:      res.Rule,
		Threshold: e.cfg.StabilityThreshold,
	}

	switch {
	case res.Symbol.IsWord():
		e.commitWord(res.Symbol)
		st.Committed = res.Symbol
		st.Smoothed = e.smoother.Mode()
		st.Stable = e.stability.Count()

	case res.Symbol.IsNeutral():
		st.Smoothed = e.smoother.Push(res.Symbol)
		e.marker = gesture.SymbolNone
		// The raw frame releases the letter without waiting for the window,
		// so a one-frame open-hand flicker while holding a letter types it
		// again once the run rebuilds to the threshold.
		e.stability.Interrupt(res.Symbol)

	default:
		st.Smoothed = e.smoother.Push(res.Symbol)
		st.Stable = e.stability.Observe(st.Smoothed)
		if st.Stable >= e.cfg.StabilityThreshold {
			st.Committed = e.settle(st.Smoothed)
		}
	}

	st.Display = display(st.Smoothed)
	if st.Committed.IsWord() {
		st.Display = string(st.Committed)
	}
	return e.finish(st)
}

// settle applies a stable smoothed symbol and returns what was typed, if
// anything.
func (e *Engine) settle(sym gesture.Symbol) gesture.Symbol {
	switch {
	case sym.IsNeutral():
		e.marker = gesture.SymbolNone
		return gesture.SymbolNone
	case sym == gesture.SymbolNone, sym == e.marker:
		return gesture.SymbolNone
	}
	e.text.Append(string(sym))
	e.marker = sym
	return sym
}

func (e *Engine) commitWord(word gesture.Symbol) {
	if !e.text.Empty() && !e.text.EndsWithSpace() {
		e.text.Space()
	}
	e.text.Append(string(word))
	e.text.Space()
	e.marker = word
}

func (e *Engine) absent() Status {
	wasPresent := e.present
	e.present = false
	e.marker = gesture.SymbolNone
	e.stability.Interrupt(gesture.SymbolNoHand)
	if e.wave != nil {
		e.wave.Reset()
	}

	st := Status{
		Raw:       gesture.SymbolNoHand,
		Smoothed:  gesture.SymbolNoHand,
		Threshold: e.cfg.StabilityThreshold,
		Display:   DisplayNoHand,
	}
	if wasPresent && !e.text.Empty() && !e.text.EndsWithSpace() {
		e.text.Space()
		st.AutoSpace = true
	}
	return e.finish(st)
}

// Apply performs an external edit. Every edit clears the commit marker so
// the last letter can be typed again right away.
func (e *Engine) Apply(op EditOp) (Status, error) {
	switch op {
	case EditBackspace:
		e.text.Backspace()
	case EditClear:
		e.text.Clear()
	case EditSpace:
		e.text.Space()
	default:
		return e.status, fmt.Errorf("%w: %q", ErrUnknownEdit, op)
	}
	e.marker = gesture.SymbolNone

	st := e.status
	st.Committed = gesture.SymbolNone
	st.AutoSpace = false
	st.Edit = op
	return e.finish(st), nil
}

func (e *Engine) finish(st Status) Status {
	st.Text = e.text.String()
	if e.wave != nil {
		st.WaveCycles = e.wave.Cycles()
	}
	e.status = st
	return st
}

func display(sym gesture.Symbol) string {
	switch sym {
	case gesture.SymbolNoHand:
		return DisplayNoHand
	case gesture.SymbolOpenHand:
		return "Open Hand"
	case gesture.SymbolNone:
		return "..."
	}
	return string(sym)
}
