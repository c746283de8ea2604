package tray

import (
	"testing"

	"github.com/ayusman/signetic/internal/typing"
)

func TestTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "HELLO", n: 8, want: "HELLO"},
		{name: "exact", in: "ABCD", n: 4, want: "ABCD"},
		{name: "cut", in: "ABCDEF", n: 3, want: "…DEF"},
		{name: "empty", in: "", n: 3, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tail(tt.in, tt.n); got != tt.want {
				t.Errorf("tail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTray_ToggleWithoutMenu(t *testing.T) {
	tr := New(true)

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should restore the enabled state")
	}
}

func TestTray_EditAndCallbacks(t *testing.T) {
	tr := New(false)

	var ops []typing.EditOp
	var spoke bool
	tr.OnEdit(func(op typing.EditOp) { ops = append(ops, op) })
	tr.OnSpeak(func() { spoke = true })

	tr.edit(typing.EditBackspace)
	tr.edit(typing.EditClear)
	tr.call(func() func() { return tr.onSpeak })
	tr.call(func() func() { return tr.onSave })

	if len(ops) != 2 || ops[0] != typing.EditBackspace || ops[1] != typing.EditClear {
		t.Errorf("ops = %v", ops)
	}
	if !spoke {
		t.Error("speak callback not called")
	}

	// No menu exists outside Run; SetStatus must tolerate that.
	tr.SetStatus(typing.Status{Display: "A", Text: "A"})
}

func TestToggleTitle(t *testing.T) {
	if toggleTitle(true) == toggleTitle(false) {
		t.Error("titles should differ by state")
	}
}
