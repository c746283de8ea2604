package app

import (
	"testing"

	"github.com/ayusman/signetic/internal/plugin"
	"github.com/ayusman/signetic/internal/typing"
)

// actions flattens a queued batch into "backspace" / "type:<text>" entries.
func actions(batch []*plugin.Request) []string {
	out := make([]string, len(batch))
	for i, req := range batch {
		out[i] = req.Action
		if req.Action == plugin.ActionType {
			out[i] += ":" + req.Text
		}
	}
	return out
}

func TestKeyboardSink_Observe(t *testing.T) {
	k := newKeyboardSink(nil)

	steps := []struct {
		name string
		text string
		want []string
	}{
		{name: "first letter", text: "A", want: []string{"type:A"}},
		{name: "unchanged", text: "A"},
		{name: "word", text: "A HELLO ", want: []string{"type: HELLO "}},
		{name: "backspace", text: "A HELLO", want: []string{"backspace"}},
		{name: "clear erases every rune", text: "", want: []string{
			"backspace", "backspace", "backspace", "backspace", "backspace", "backspace", "backspace",
		}},
		{name: "type after clear", text: "BÉ", want: []string{"type:BÉ"}},
		{name: "multi-byte rune is one backspace", text: "B", want: []string{"backspace"}},
		{name: "replaced tail", text: "BC", want: []string{"type:C"}},
		{name: "divergent text", text: "BX", want: []string{"backspace", "type:X"}},
	}

	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			k.observe(typing.Status{Text: s.text})

			if s.want == nil {
				if len(k.queue) != 0 {
					t.Fatalf("expected no requests, got %d batches", len(k.queue))
				}
				return
			}
			if len(k.queue) != 1 {
				t.Fatalf("expected one batch, got %d", len(k.queue))
			}
			got := actions(<-k.queue)
			if len(got) != len(s.want) {
				t.Fatalf("got %v, want %v", got, s.want)
			}
			for i := range got {
				if got[i] != s.want[i] {
					t.Errorf("request %d = %q, want %q", i, got[i], s.want[i])
				}
			}
		})
	}
}
