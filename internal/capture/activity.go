package capture

import (
	"sync"
	"time"
)

// Activity decides whether the pipeline should poll at its active rate.
// It turns active on motion or a visible hand and falls idle once neither
// has been seen for idleAfter.
type Activity struct {
	mu        sync.Mutex
	idleAfter time.Duration
	lastSeen  time.Time
	active    bool
	now       func() time.Time
}

// NewActivity returns an idle gate. A non-positive idleAfter keeps the
// gate active forever after the first observation.
func NewActivity(idleAfter time.Duration) *Activity {
	return &Activity{idleAfter: idleAfter, now: time.Now}
}

// Observe records one frame's signals and returns whether the gate is active.
func (a *Activity) Observe(motion, handSeen bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if motion || handSeen {
		a.lastSeen = now
		a.active = true
		return true
	}
	if a.active && a.idleAfter > 0 && now.Sub(a.lastSeen) >= a.idleAfter {
		a.active = false
	}
	return a.active
}

// Active reports the current state without recording a frame.
func (a *Activity) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Wake forces the gate active, e.g. after the user re-enables tracking.
func (a *Activity) Wake() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSeen = a.now()
	a.active = true
}
