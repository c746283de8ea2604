package typing

import (
	"errors"
	"testing"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg,
		gesture.NewClassifier(gesture.DefaultThresholds(), gesture.DefaultWaveConfig().Cycles),
		gesture.NewWaveTracker(gesture.DefaultWaveConfig()),
	)
}

func letter(t *testing.T, l string) *detector.HandLandmarks {
	t.Helper()
	h, ok := detector.LetterLandmarks(l)
	require.True(t, ok, "no pose for %q", l)
	return &h
}

// feed steps the engine n times with hand and returns the last status.
func feed(e *Engine, hand *detector.HandLandmarks, n int) Status {
	var st Status
	for i := 0; i < n; i++ {
		st = e.Step(hand)
	}
	return st
}

// typeLetters holds each letter long enough to commit it.
func typeLetters(t *testing.T, e *Engine, letters ...string) {
	t.Helper()
	for _, l := range letters {
		feed(e, letter(t, l), e.cfg.WindowSize+e.cfg.StabilityThreshold)
	}
}

func TestEngine_ScenarioA_CommitOnce(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)
	d := letter(t, "D")

	e.Step(nil)
	st := feed(e, d, cfg.StabilityThreshold-1)
	assert.Empty(t, st.Text)
	assert.Equal(t, cfg.StabilityThreshold-1, st.Stable)

	st = e.Step(d)
	assert.Equal(t, "D", st.Text)
	assert.Equal(t, gesture.Symbol("D"), st.Committed)

	st = feed(e, d, 200)
	assert.Equal(t, "D", st.Text)
	assert.Empty(t, st.Committed)
}

func TestEngine_ScenarioB_NeutralFrameAllowsRepeat(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)
	d := letter(t, "D")
	open := detector.OpenPalmLandmarks()

	feed(e, d, cfg.StabilityThreshold)
	require.Equal(t, "D", e.Text())

	st := e.Step(&open)
	assert.Equal(t, gesture.SymbolOpenHand, st.Raw)
	assert.Zero(t, st.Stable)

	st = feed(e, d, cfg.StabilityThreshold-1)
	assert.Equal(t, "D", st.Text, "run must restart after the neutral frame")

	st = e.Step(d)
	assert.Equal(t, "DD", st.Text)
}

func TestEngine_ScenarioC_AutoSpaceOnce(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "H", "I")
	require.Equal(t, "HI", e.Text())

	st := e.Step(nil)
	assert.Equal(t, "HI ", st.Text)
	assert.True(t, st.AutoSpace)
	assert.Equal(t, DisplayNoHand, st.Display)
	assert.False(t, st.Present)

	for i := 0; i < 5; i++ {
		st = e.Step(nil)
		assert.False(t, st.AutoSpace)
	}
	assert.Equal(t, "HI ", st.Text)
}

func TestEngine_AutoSpaceRespectsExistingSpace(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "D")
	_, err := e.Apply(EditSpace)
	require.NoError(t, err)

	st := e.Step(nil)
	assert.False(t, st.AutoSpace)
	assert.Equal(t, "D ", st.Text)
}

func TestEngine_AutoSpaceNeedsText(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	open := detector.OpenPalmLandmarks()
	feed(e, &open, 3)

	st := e.Step(nil)
	assert.False(t, st.AutoSpace)
	assert.Empty(t, st.Text)
}

func TestEngine_IncompleteHandIsAbsent(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "D")

	partial := letter(t, "D")
	partial.Points = partial.Points[:10]
	st := e.Step(partial)
	assert.False(t, st.Present)
	assert.True(t, st.AutoSpace)
	assert.Equal(t, "D ", st.Text)
}

func TestEngine_HandLossClearsMarker(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)
	d := letter(t, "D")

	feed(e, d, cfg.StabilityThreshold)
	e.Step(nil)
	st := feed(e, d, cfg.StabilityThreshold)
	assert.Equal(t, "D D", st.Text)
}

func TestEngine_LetterChangesCommitEach(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "D", "L", "D")
	assert.Equal(t, "DLD", e.Text())
}

func TestEngine_NoRepeatWithoutBreak(t *testing.T) {
	cfg := Config{WindowSize: 5, StabilityThreshold: 3}
	e := newTestEngine(cfg)
	st := feed(e, letter(t, "Y"), 100)
	assert.Equal(t, "Y", st.Text)
}

func TestEngine_StableCountResetsOnChange(t *testing.T) {
	cfg := Config{WindowSize: 1, StabilityThreshold: 50}
	e := newTestEngine(cfg)

	prev := 0
	for i := 0; i < 10; i++ {
		st := e.Step(letter(t, "V"))
		assert.Equal(t, prev+1, st.Stable)
		prev = st.Stable
	}
	st := e.Step(letter(t, "U"))
	assert.Equal(t, 1, st.Stable)
}

func TestEngine_BackspaceAllowsImmediateRetype(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)
	d := letter(t, "D")

	feed(e, d, cfg.StabilityThreshold)
	st, err := e.Apply(EditBackspace)
	require.NoError(t, err)
	assert.Empty(t, st.Text)
	assert.Equal(t, EditBackspace, st.Edit)

	st = e.Step(d)
	assert.Equal(t, "D", st.Text)
	assert.Equal(t, gesture.Symbol("D"), st.Committed)
}

func TestEngine_Edits(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "A", "B")

	st, err := e.Apply(EditSpace)
	require.NoError(t, err)
	assert.Equal(t, "AB ", st.Text)

	st, err = e.Apply(EditClear)
	require.NoError(t, err)
	assert.Empty(t, st.Text)

	_, err = e.Apply("shout")
	assert.True(t, errors.Is(err, ErrUnknownEdit))
}

func TestEngine_WaveTypesWord(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	typeLetters(t, e, "D")

	var st Status
	for i := 0; i < 6; i++ {
		dx := 0.0
		if i%2 == 1 {
			dx = 0.03
		}
		hand := detector.NewHandBuilder().
			Extend(detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP).
			Thumb(0.68, 0.62).
			Translate(dx, 0).
			Build()
		st = e.Step(&hand)
	}

	assert.Equal(t, gesture.SymbolHello, st.Committed)
	assert.Equal(t, "HELLO", st.Display)
	assert.Equal(t, "D HELLO ", st.Text)
	assert.Zero(t, st.WaveCycles)
}

func TestParseEditOp(t *testing.T) {
	for _, name := range []string{"backspace", "clear", "space"} {
		op, err := ParseEditOp(name)
		require.NoError(t, err)
		assert.Equal(t, EditOp(name), op)
	}
	_, err := ParseEditOp("undo")
	assert.ErrorIs(t, err, ErrUnknownEdit)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window_size")
	assert.Contains(t, err.Error(), "stability_threshold")
}

func TestEngine_NeutralFlickerWhileHolding(t *testing.T) {
	d := letter(t, "D")
	open := detector.OpenPalmLandmarks()

	// hold runs 200 frames of D with one open-hand frame every period.
	hold := func(period int) string {
		e := newTestEngine(DefaultConfig())
		for i := 0; i < 200; i++ {
			if i%period == period-1 {
				e.Step(&open)
				continue
			}
			e.Step(d)
		}
		return e.Text()
	}

	tests := []struct {
		name   string
		period int
		want   string
	}{
		{"gaps longer than the threshold retype each time", 20, "DDDDDDDDDD"},
		{"gaps shorter than the threshold type nothing", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hold(tt.period))
		})
	}

	t.Run("small window", func(t *testing.T) {
		e := newTestEngine(Config{WindowSize: 3, StabilityThreshold: 3})
		feed(e, d, 5)
		require.Equal(t, "D", e.Text())

		e.Step(&open)
		st := feed(e, d, 2)
		assert.Equal(t, "D", st.Text)
		assert.Equal(t, gesture.Symbol("D"), st.Smoothed, "window outvotes the single open frame")

		st = e.Step(d)
		assert.Equal(t, "DD", st.Text)
	})
}
