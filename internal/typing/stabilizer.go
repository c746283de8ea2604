package typing

import "github.com/ayusman/signetic/internal/gesture"

// Stabilizer counts how many consecutive frames the smoothed symbol has
// stayed the same.
type Stabilizer struct {
	last  gesture.Symbol
	count int
}

// Observe records this frame's smoothed symbol and returns the run length.
// A change restarts the run at 1.
func (s *Stabilizer) Observe(sym gesture.Symbol) int {
	if sym == s.last && s.count > 0 {
		s.count++
	} else {
		s.last = sym
		s.count = 1
	}
	return s.count
}

// Interrupt ends the current run without counting the frame.
func (s *Stabilizer) Interrupt(sym gesture.Symbol) {
	s.last = sym
	s.count = 0
}

// Last returns the most recently observed symbol.
func (s *Stabilizer) Last() gesture.Symbol { return s.last }

// Count returns the current run length.
func (s *Stabilizer) Count() int { return s.count }
