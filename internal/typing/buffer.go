package typing

// TextBuffer is the typed text. Edits work on runes.
type TextBuffer struct {
	runes []rune
}

// Append adds s to the end.
func (b *TextBuffer) Append(s string) {
	b.runes = append(b.runes, []rune(s)...)
}

// Backspace removes the last rune. It reports whether anything was removed.
func (b *TextBuffer) Backspace() bool {
	if len(b.runes) == 0 {
		return false
	}
	b.runes = b.runes[:len(b.runes)-1]
	return true
}

// Clear empties the buffer.
func (b *TextBuffer) Clear() { b.runes = b.runes[:0] }

// Space appends one space unconditionally.
func (b *TextBuffer) Space() { b.runes = append(b.runes, ' ') }

// Empty reports whether the buffer holds no text.
func (b *TextBuffer) Empty() bool { return len(b.runes) == 0 }

// EndsWithSpace reports whether the last rune is a space.
func (b *TextBuffer) EndsWithSpace() bool {
	return len(b.runes) > 0 && b.runes[len(b.runes)-1] == ' '
}

func (b *TextBuffer) String() string { return string(b.runes) }
