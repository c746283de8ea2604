package typing

import "testing"

func TestTextBuffer(t *testing.T) {
	var b TextBuffer
	if !b.Empty() || b.EndsWithSpace() {
		t.Fatal("new buffer should be empty without trailing space")
	}

	b.Append("HÉ")
	b.Space()
	if got := b.String(); got != "HÉ " {
		t.Errorf("String() = %q, want %q", got, "HÉ ")
	}
	if !b.EndsWithSpace() {
		t.Error("expected trailing space")
	}

	b.Backspace()
	b.Backspace()
	if got := b.String(); got != "H" {
		t.Errorf("after backspaces String() = %q, want %q", got, "H")
	}

	b.Clear()
	if !b.Empty() {
		t.Error("expected empty buffer after Clear")
	}
	if b.Backspace() {
		t.Error("Backspace on empty buffer should report false")
	}
}
