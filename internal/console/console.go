// Package console renders the typing status in a terminal and maps keys
// to text edits.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/signetic/internal/typing"
)

// ErrQuit is returned by Run when the user asks to quit.
var ErrQuit = errors.New("console: quit requested")

// Session is the part of the typing session the console needs.
type Session interface {
	Status() typing.Status
	Edit(ctx context.Context, op typing.EditOp) (typing.Status, error)
}

type action int

const (
	actNone action = iota
	actEdit
	actQuit
)

// opForKey maps a key press to an action and, for edits, the edit op.
func opForKey(key tcell.Key, r rune) (action, typing.EditOp) {
	switch key {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return actEdit, typing.EditBackspace
	case tcell.KeyEscape:
		return actEdit, typing.EditClear
	case tcell.KeyCtrlC:
		return actQuit, ""
	case tcell.KeyRune:
		if r == ' ' {
			return actEdit, typing.EditSpace
		}
	}
	return actNone, ""
}

var (
	styleTitle = tcell.StyleDefault.Bold(true)
	styleLabel = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSign  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleIdle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBar   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// Console draws status updates on a tcell screen.
type Console struct {
	screen  tcell.Screen
	session Session
	updates chan typing.Status
}

// New creates a console on screen. The screen is initialized by Run.
func New(screen tcell.Screen, session Session) *Console {
	return &Console{
		screen:  screen,
		session: session,
		updates: make(chan typing.Status, 1),
	}
}

// Publish queues st for drawing, replacing any status not yet drawn. It
// never blocks and is meant to be registered as a session listener.
func (c *Console) Publish(st typing.Status) {
	for {
		select {
		case c.updates <- st:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}

// Run owns the terminal until ctx is cancelled or the user quits, in
// which case it returns ErrQuit.
func (c *Console) Run(ctx context.Context) error {
	if err := c.screen.Init(); err != nil {
		return fmt.Errorf("console: init screen: %w", err)
	}
	defer c.screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	c.draw(c.session.Status())
	for {
		select {
		case <-ctx.Done():
			return nil
		case st := <-c.updates:
			c.draw(st)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()
		c.draw(c.session.Status())
	case *tcell.EventKey:
		act, op := opForKey(ev.Key(), ev.Rune())
		switch act {
		case actQuit:
			return ErrQuit
		case actEdit:
			st, err := c.session.Edit(ctx, op)
			if err != nil {
				slog.Warn("console edit failed", "op", op, "error", err)
				return nil
			}
			c.draw(st)
		}
	}
	return nil
}

func (c *Console) draw(st typing.Status) {
	s := c.screen
	s.Clear()
	w, h := s.Size()

	put(s, 1, 0, styleTitle, "signetic")

	put(s, 1, 2, styleLabel, "Sign  ")
	signStyle := styleSign
	if !st.Present {
		signStyle = styleIdle
	}
	line := st.Display
	if st.Rule != "" {
		line += "  (" + st.Rule + ")"
	}
	put(s, 7, 2, signStyle, line)

	put(s, 1, 3, styleLabel, "Hold  ")
	put(s, 7, 3, styleBar, bar(st.Stable, st.Threshold, 20))
	put(s, 1, 4, styleLabel, "Wave  ")
	put(s, 7, 4, tcell.StyleDefault, fmt.Sprintf("%d", st.WaveCycles))

	put(s, 1, 6, styleLabel, "Text  ")
	text := st.Text
	if avail := w - 8; avail > 0 && len([]rune(text)) > avail {
		r := []rune(text)
		text = string(r[len(r)-avail:])
	}
	put(s, 7, 6, tcell.StyleDefault, text+"▏")

	put(s, 1, h-1, styleLabel, "Backspace delete  Esc clear  Space space  Ctrl-C quit")
	s.Show()
}

// bar renders count out of max as a fixed-width gauge.
func bar(count, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func put(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
