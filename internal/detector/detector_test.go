package detector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandLandmarks_Complete(t *testing.T) {
	t.Run("nil hand is incomplete", func(t *testing.T) {
		var h *HandLandmarks
		if h.Complete() {
			t.Error("expected nil hand to be incomplete")
		}
	})

	t.Run("partial point list is incomplete", func(t *testing.T) {
		h := &HandLandmarks{Points: make([]Point3D, 20)}
		if h.Complete() {
			t.Error("expected 20 points to be incomplete")
		}
	})

	t.Run("full point list is complete", func(t *testing.T) {
		h := OpenPalmLandmarks()
		if !h.Complete() {
			t.Errorf("expected %d points to be complete", len(h.Points))
		}
	})
}

func TestHandLandmarks_Clone(t *testing.T) {
	orig := OpenPalmLandmarks()
	c := orig.Clone()
	c.Points[Wrist].X = 42

	assert.NotEqual(t, 42.0, orig.Points[Wrist].X, "clone must not share points")
	assert.Equal(t, orig.Handedness, c.Handedness)
	assert.Nil(t, (*HandLandmarks)(nil).Clone())
}

func TestFirst(t *testing.T) {
	assert.Nil(t, First(nil))

	hands := []HandLandmarks{OpenPalmLandmarks(), {Handedness: "Left"}}
	first := First(hands)
	require.NotNil(t, first)
	assert.Equal(t, "Right", first.Handedness)
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	hands, err := m.Detect(nil)
	require.NoError(t, err)
	assert.Empty(t, hands)

	m.SetHands([]HandLandmarks{OpenPalmLandmarks()})
	hands, err = m.Detect(nil)
	require.NoError(t, err)
	assert.Len(t, hands, 1)

	boom := errors.New("boom")
	m.SetError(boom)
	_, err = m.Detect(nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, m.Calls())
	assert.NoError(t, m.Close())
}

func TestParseResponse(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"ready":false,"hands":[]}`))
		assert.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`))
		require.NoError(t, err)
		assert.Nil(t, hands)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"hands":`))
		assert.Error(t, err)
	})

	t.Run("partial hand passes through", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0.0}],"handedness":"Left","score":0.8}]}`)
		hands, err := parseResponse(line)
		require.NoError(t, err)
		require.Len(t, hands, 1)
		assert.Equal(t, "Left", hands[0].Handedness)
		assert.Len(t, hands[0].Points, 1)
		assert.False(t, hands[0].Complete())
	})
}

func TestHandBuilder(t *testing.T) {
	t.Run("base hand size", func(t *testing.T) {
		h := NewHandBuilder().Build()
		w, m := h.Points[Wrist], h.Points[MiddleMCP]
		assert.InDelta(t, 0.14, w.Y-m.Y, 1e-9)
		assert.Equal(t, w.X, m.X)
	})

	t.Run("extend places tip above knuckle", func(t *testing.T) {
		h := NewHandBuilder().Extend(IndexMCP).Build()
		assert.InDelta(t, h.Points[IndexMCP].Y-0.16, h.Points[IndexTip].Y, 1e-9)
		assert.Less(t, h.Points[IndexDIP].Y, h.Points[IndexPIP].Y)
	})

	t.Run("bend moves the middle joint only", func(t *testing.T) {
		h := NewHandBuilder().Finger(IndexMCP, 0.02, -0.10).Bend(IndexMCP, 0, -0.11).Build()
		assert.InDelta(t, 0.56, h.Points[IndexPIP].Y, 1e-9)
		assert.InDelta(t, 0.57, h.Points[IndexTip].Y, 1e-9)
		assert.InDelta(t, 0.565, h.Points[IndexDIP].Y, 1e-9)
		assert.Greater(t, h.Points[IndexTip].Y, h.Points[IndexPIP].Y, "tip hooks below the raised joint")
	})

	t.Run("translate shifts every point", func(t *testing.T) {
		a := NewHandBuilder().Build()
		b := NewHandBuilder().Translate(0.1, -0.05).Build()
		for i := range a.Points {
			assert.InDelta(t, a.Points[i].X+0.1, b.Points[i].X, 1e-9)
			assert.InDelta(t, a.Points[i].Y-0.05, b.Points[i].Y, 1e-9)
		}
	})

	t.Run("every letter builds a complete hand", func(t *testing.T) {
		for _, l := range Letters() {
			h, ok := LetterLandmarks(l)
			require.True(t, ok, l)
			assert.True(t, h.Complete(), l)
		}
		_, ok := LetterLandmarks("Z")
		assert.False(t, ok)
	})
}
