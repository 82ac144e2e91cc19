package motion

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// RunState tracks the animator's lifecycle.
type RunState int32

const (
	RunStopped RunState = iota
	RunRunning
	RunStopRequested
)

// Gate is the animator's read-only view of the suppression flag.
type Gate interface {
	Suppressed() bool
}

// AnimatorConfig tunes the idle animation behavior.
type AnimatorConfig struct {
	// MinInterval and MaxInterval bound the randomized pause between
	// cycles.
	MinInterval time.Duration
	MaxInterval time.Duration

	// Hold is how long a wiggle is held before returning to rest.
	Hold time.Duration

	// Slice is the granularity of interruptible sleeps; Stop takes
	// effect within one slice.
	Slice time.Duration

	// WiggleSpan is the maximum degrees away from rest, either side.
	WiggleSpan int

	// JoinTimeout bounds the wait for the background loop to exit.
	JoinTimeout time.Duration
}

// DefaultAnimatorConfig matches the stock robot's idle behavior: a
// small nudge every 8-15 seconds.
func DefaultAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		MinInterval: 8 * time.Second,
		MaxInterval: 15 * time.Second,
		Hold:        500 * time.Millisecond,
		Slice:       100 * time.Millisecond,
		WiggleSpan:  15,
		JoinTimeout: 2 * time.Second,
	}
}

// Animator is the background activity that keeps the robot looking
// alive: at randomized intervals it nudges one random joint a little
// off its rest angle and brings it back. It checks suppression before
// every cycle and skips silently while foreground activity runs.
type Animator struct {
	sender Sender
	joints []servo.Joint
	gate   Gate
	cfg    AnimatorConfig

	// rng is single-consumer: only the loop goroutine draws from it.
	// Injectable for deterministic tests.
	rng *rand.Rand

	mu    sync.Mutex
	state RunState
	stop  chan struct{}
	done  chan struct{}
}

// NewAnimator creates an idle animator. A nil rng gets a time-seeded
// source.
func NewAnimator(sender Sender, reg *servo.Registry, gate Gate, rng *rand.Rand, cfg AnimatorConfig) *Animator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Animator{
		sender: sender,
		joints: reg.Joints(),
		gate:   gate,
		cfg:    cfg,
		rng:    rng,
	}
}

// State returns the current run state.
func (a *Animator) State() RunState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start launches the background loop. Starting a running animator is
// a no-op.
func (a *Animator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != RunStopped {
		log.Warn("idle animator already running")
		return
	}
	a.state = RunRunning
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.loop(a.stop, a.done)
	log.Info("idle animator started",
		"min_interval", a.cfg.MinInterval, "max_interval", a.cfg.MaxInterval)
}

// Stop signals the loop and waits for it to exit, bounded by the join
// timeout. Idempotent, and safe when never started.
func (a *Animator) Stop() {
	a.mu.Lock()
	if a.state != RunRunning {
		a.mu.Unlock()
		return
	}
	a.state = RunStopRequested
	close(a.stop)
	done := a.done
	a.mu.Unlock()

	select {
	case <-done:
	case <-time.After(a.cfg.JoinTimeout):
		log.Warn("idle animator join timed out")
	}

	a.mu.Lock()
	a.state = RunStopped
	a.mu.Unlock()
	log.Info("idle animator stopped")
}

// loop runs until the stop channel closes. Cooperative cancellation
// only: the sliced sleeps bound how long a stop can take.
func (a *Animator) loop(stop, done chan struct{}) {
	defer close(done)

	for {
		interval := a.cfg.MinInterval
		if span := a.cfg.MaxInterval - a.cfg.MinInterval; span > 0 {
			interval += time.Duration(a.rng.Int63n(int64(span) + 1))
		}
		if !a.sleepSliced(interval, stop) {
			return
		}

		if a.gate.Suppressed() {
			log.Debug("idle cycle skipped, foreground activity in progress")
			continue
		}

		a.wiggle(stop)
	}
}

// wiggle nudges one random joint off its rest angle and returns it.
// The return-to-rest is sent even when a stop arrives mid-hold, so
// the hardware is never left off-rest by the animator.
func (a *Animator) wiggle(stop chan struct{}) {
	j := a.joints[a.rng.Intn(len(a.joints))]
	delta := a.rng.Intn(2*a.cfg.WiggleSpan+1) - a.cfg.WiggleSpan
	target := j.Clamp(j.Rest + delta)

	log.Debug("idle wiggle", "joint", j.Name, "angle", target)
	if _, err := a.sender.Send(Move(j.Name, target)); err != nil {
		log.Warn("idle move rejected", "joint", j.Name, "err", err)
		return
	}
	a.sleepSliced(a.cfg.Hold, stop)
	if _, err := a.sender.Send(Move(j.Name, j.Rest)); err != nil {
		log.Warn("idle return rejected", "joint", j.Name, "err", err)
	}
}

// sleepSliced sleeps for d in slices, returning false if stop closed.
func (a *Animator) sleepSliced(d time.Duration, stop chan struct{}) bool {
	for remaining := d; remaining > 0; remaining -= a.cfg.Slice {
		slice := a.cfg.Slice
		if remaining < slice {
			slice = remaining
		}
		select {
		case <-stop:
			return false
		case <-time.After(slice):
		}
	}
	return true
}
