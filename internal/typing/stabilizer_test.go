package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/signetic/internal/gesture"
)

func TestStabilizer(t *testing.T) {
	var s Stabilizer

	assert.Equal(t, 1, s.Observe("D"))
	assert.Equal(t, 2, s.Observe("D"))
	assert.Equal(t, 3, s.Observe("D"))

	t.Run("change restarts at one", func(t *testing.T) {
		assert.Equal(t, 1, s.Observe("L"))
		assert.Equal(t, gesture.Symbol("L"), s.Last())
	})

	t.Run("interrupt drops the run", func(t *testing.T) {
		s.Interrupt(gesture.SymbolNoHand)
		assert.Equal(t, 0, s.Count())
		assert.Equal(t, gesture.SymbolNoHand, s.Last())
		assert.Equal(t, 1, s.Observe("L"))
	})

	t.Run("interrupt with the same symbol still restarts", func(t *testing.T) {
		s.Observe("L")
		s.Interrupt("L")
		assert.Equal(t, 1, s.Observe("L"))
	})
}

func TestStabilizer_Sequence(t *testing.T) {
	var s Stabilizer
	seq := []struct {
		sym  gesture.Symbol
		want int
	}{
		{"D", 1},
		{"D", 2},
		{"D", 3},
		{"L", 1},
		{"L", 2},
		{"D", 1},
	}
	for i, step := range seq {
		if got := s.Observe(step.sym); got != step.want {
			t.Errorf("step %d: Observe(%q) = %d, want %d", i, step.sym, got, step.want)
		}
	}
}
