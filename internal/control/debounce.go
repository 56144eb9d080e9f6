package control

import (
	"sync"
	"time"
)

// Gate enforces a single minimum interval between emitted command events.
// The window is shared across all gestures and all hands; the gate is the
// only state shared between observations in a frame.
//
// Candidates inside the window are discarded permanently. There is no
// queueing and no catch-up once the window reopens.
type Gate struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

// NewGate creates a Gate with the given cooldown window.
func NewGate(window time.Duration) *Gate {
	return &Gate{window: window}
}

// Admit atomically checks the candidate timestamp against the cooldown
// window. It returns true and advances the window when the candidate is
// at or past the boundary; the first candidate on an idle gate is always
// admitted. The check-and-update is a single critical section so that two
// hands proposing events in the same frame cannot both pass.
func (g *Gate) Admit(t time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() && t.Sub(g.last) < g.window {
		return false
	}

	g.last = t
	return true
}

// Window returns the configured cooldown duration.
func (g *Gate) Window() time.Duration {
	return g.window
}
