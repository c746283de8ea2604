// Package gesture classifies a single hand pose into a fingerspelling
// symbol and tracks the wave motion used for the greeting word.
package gesture

// Symbol is one frame's classification: a letter, a word token, or one of
// the neutral sentinels below.
type Symbol string

const (
	// SymbolNone is the empty no-match result.
	SymbolNone Symbol = ""
	// SymbolOpenHand is returned when no letter rule matches.
	SymbolOpenHand Symbol = "open_hand"
	// SymbolNoHand is the placeholder recorded while no hand is visible.
	SymbolNoHand Symbol = "no_hand"
	// SymbolHello is the word emitted by the wave gesture.
	SymbolHello Symbol = "HELLO"
)

// IsNeutral reports whether s never gets typed and instead releases the
// commit marker.
func (s Symbol) IsNeutral() bool {
	switch s {
	case SymbolOpenHand, SymbolNoHand:
		return true
	}
	return false
}

// IsWord reports whether s is a multi-character word token.
func (s Symbol) IsWord() bool {
	return s == SymbolHello
}

func (s Symbol) String() string { return string(s) }
