// Package typing turns the per-frame symbol stream into typed text: a
// sliding-window vote, a stability counter that commits each stable run
// once, auto-spacing on hand loss, and the session goroutine that owns all
// of that state.
package typing

import "github.com/ayusman/signetic/internal/gesture"

// Smoother keeps the last N raw symbols and votes on them.
type Smoother struct {
	buf  []gesture.Symbol
	next int
	full bool
}

// NewSmoother creates a smoother with a window of size symbols. Sizes
// below one are raised to one.
func NewSmoother(size int) *Smoother {
	if size < 1 {
		size = 1
	}
	return &Smoother{buf: make([]gesture.Symbol, size)}
}

// Push adds s, evicting the oldest entry when full, and returns the mode of
// the window.
func (s *Smoother) Push(sym gesture.Symbol) gesture.Symbol {
	s.buf[s.next] = sym
	s.next = (s.next + 1) % len(s.buf)
	if s.next == 0 {
		s.full = true
	}
	return s.Mode()
}

// Len returns the number of symbols in the window.
func (s *Smoother) Len() int {
	if s.full {
		return len(s.buf)
	}
	return s.next
}

// Window returns the buffered symbols oldest first.
func (s *Smoother) Window() []gesture.Symbol {
	if !s.full {
		return append([]gesture.Symbol(nil), s.buf[:s.next]...)
	}
	out := make([]gesture.Symbol, 0, len(s.buf))
	out = append(out, s.buf[s.next:]...)
	return append(out, s.buf[:s.next]...)
}

// Mode returns the most frequent symbol in the window. On a tie the symbol
// that first reached the winning count, scanning oldest to newest, wins.
// An empty window yields SymbolNone.
func (s *Smoother) Mode() gesture.Symbol {
	counts := make(map[gesture.Symbol]int, len(s.buf))
	best, bestCount := gesture.SymbolNone, 0
	for _, sym := range s.Window() {
		counts[sym]++
		if counts[sym] > bestCount {
			best, bestCount = sym, counts[sym]
		}
	}
	return best
}
