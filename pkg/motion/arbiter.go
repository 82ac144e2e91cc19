package motion

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rufuslabs/go-rufus/internal/log"
)

// Arbiter coordinates the two activity sources that compete for the
// hardware: foreground gestures and the background idle animator.
// Foreground activity raises a suppression flag for its whole
// duration; the animator reads the flag before each cycle and skips
// while it is up. Gestures additionally take an exclusive slot so two
// sequences never interleave their steps.
type Arbiter struct {
	fg sync.Mutex // exclusive foreground slot, one gesture at a time

	mu           sync.Mutex
	depth        int // suppression nesting depth
	shuttingDown bool
}

// NewArbiter creates an arbiter with no activity in progress.
func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// Suppress raises the suppression flag without blocking and returns
// the release. Release is safe to call more than once and must run on
// every exit path of the foreground activity.
func (a *Arbiter) Suppress() (release func()) {
	id := uuid.NewString()[:8]

	a.mu.Lock()
	a.depth++
	a.mu.Unlock()
	log.Debug("suppression raised", "activity", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			a.depth--
			a.mu.Unlock()
			log.Debug("suppression released", "activity", id)
		})
	}
}

// Begin claims the exclusive foreground slot, blocking until any
// in-progress gesture completes, and raises suppression. The returned
// end releases both.
func (a *Arbiter) Begin() (end func()) {
	a.fg.Lock()
	release := a.Suppress()

	var once sync.Once
	return func() {
		once.Do(func() {
			release()
			a.fg.Unlock()
		})
	}
}

// Suppressed reports whether any foreground activity is in progress.
// The idle animator polls this before every cycle.
func (a *Arbiter) Suppressed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.depth > 0
}

// BeginShutdown asserts suppression permanently. After this the idle
// animator never issues another command; the caller then stops the
// animator, parks the servos and closes the link, in that order.
func (a *Arbiter) BeginShutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shuttingDown {
		return
	}
	a.shuttingDown = true
	a.depth++
	log.Info("shutdown suppression asserted")
}

// ShuttingDown reports whether BeginShutdown has been called.
func (a *Arbiter) ShuttingDown() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shuttingDown
}
