// Package tray shows the typing status in the system tray and exposes the
// tracking toggle and text actions as menu items.
package tray

import (
	"sync"
	"unicode/utf8"

	"github.com/getlantern/systray"

	"github.com/ayusman/signetic/internal/typing"
)

// maxTextRunes is how much of the tail of the buffer the menu shows.
const maxTextRunes = 32

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(enabled bool)
	onSpeak     func()
	onEdit      func(op typing.EditOp)
	onSave      func()
	onDashboard func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuSymbol *systray.MenuItem
	menuText   *systray.MenuItem
}

// New creates a Tray with the given initial tracking state.
func New(enabled bool) *Tray {
	return &Tray{enabled: enabled}
}

// OnToggle sets the callback for the tracking toggle.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSpeak sets the callback for "Speak Text".
func (t *Tray) OnSpeak(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSpeak = fn
}

// OnEdit sets the callback for the backspace, space and clear items.
func (t *Tray) OnEdit(fn func(op typing.EditOp)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEdit = fn
}

// OnSave sets the callback for "Save Transcript".
func (t *Tray) OnSave(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSave = fn
}

// OnDashboard sets the callback for "Open Dashboard...".
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called, and must be called
// from the main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops the tray from any goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Signetic")
	systray.SetTooltip("Signetic fingerspelling keyboard")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()
	t.menuSymbol = systray.AddMenuItem("Sign: "+typing.DisplayNoHand, "Current sign")
	t.menuSymbol.Disable()
	t.menuText = systray.AddMenuItem("Text: ", "Typed text")
	t.menuText.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSpeak := systray.AddMenuItem("Speak Text", "Read the text aloud")
	menuSpace := systray.AddMenuItem("Space", "Append a space")
	menuBackspace := systray.AddMenuItem("Backspace", "Delete the last character")
	menuClear := systray.AddMenuItem("Clear", "Clear the text")
	menuSave := systray.AddMenuItem("Save Transcript", "Save the text to history")
	systray.AddSeparator()
	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Signetic")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSpeak.ClickedCh:
				t.call(func() func() { return t.onSpeak })
			case <-menuSpace.ClickedCh:
				t.edit(typing.EditSpace)
			case <-menuBackspace.ClickedCh:
				t.edit(typing.EditBackspace)
			case <-menuClear.ClickedCh:
				t.edit(typing.EditClear)
			case <-menuSave.ClickedCh:
				t.call(func() func() { return t.onSave })
			case <-menuDashboard.ClickedCh:
				t.call(func() func() { return t.onDashboard })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// call runs the callback picked under the read lock, outside the lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	fn := pick()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) edit(op typing.EditOp) {
	t.mu.RLock()
	fn := t.onEdit
	t.mu.RUnlock()
	if fn != nil {
		fn(op)
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// SetStatus updates the sign and text lines. Safe to use as a session
// status listener.
func (t *Tray) SetStatus(st typing.Status) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSymbol != nil {
		t.menuSymbol.SetTitle("Sign: " + st.Display)
	}
	if t.menuText != nil {
		t.menuText.SetTitle("Text: " + tail(st.Text, maxTextRunes))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

// tail returns the last n runes of s, prefixed with an ellipsis when cut.
func tail(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return "…" + string(r[len(r)-n:])
}
