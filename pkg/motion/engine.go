package motion

import (
	"sort"
	"time"

	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// Engine expands gestures into step sequences and drives them through
// the command channel, one step at a time, under the arbiter's
// exclusive foreground slot. A gesture in progress always runs to
// completion; partial gestures look incoherent.
type Engine struct {
	sender Sender
	arb    *Arbiter
	specs  map[string]GestureSpec

	// sleep is swapped out in tests to keep them fast.
	sleep func(time.Duration)
}

// NewEngine creates a gesture engine with the builtin vocabulary
// authored against the given registry.
func NewEngine(sender Sender, arb *Arbiter, reg *servo.Registry) *Engine {
	return &Engine{
		sender: sender,
		arb:    arb,
		specs:  builtinGestures(reg),
		sleep:  time.Sleep,
	}
}

// Has reports whether a gesture name is in the vocabulary.
func (e *Engine) Has(name string) bool {
	_, ok := e.specs[name]
	return ok
}

// Names returns the gesture vocabulary, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.specs))
	for n := range e.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Perform runs a named gesture and then parks back at rest. Returns
// false only when the name is unrecognized; hardware-level send
// failures do not change the result, since motion is allowed to
// degrade silently. Blocks while another gesture is in progress.
func (e *Engine) Perform(name string) bool {
	spec, ok := e.specs[name]
	if !ok {
		log.Warn("unknown gesture", "name", name)
		return false
	}

	end := e.arb.Begin()
	defer end()

	log.Info("gesture", "name", name)
	e.run(spec)
	if name != RestGesture && name != "neutral" {
		e.run(e.specs[RestGesture])
	}
	return true
}

// PerformSteps runs an ad-hoc step sequence under the same exclusion
// and suppression as a named gesture.
func (e *Engine) PerformSteps(steps ...Step) {
	end := e.arb.Begin()
	defer end()
	e.run(GestureSpec{Name: "adhoc", Steps: steps})
}

// Move drives a single joint as a foreground activity and reports the
// send outcome, for callers that need to know whether hardware was
// reached (the API's servo endpoint).
func (e *Engine) Move(joint string, angle int) (Outcome, error) {
	end := e.arb.Begin()
	defer end()
	return e.sender.Send(Move(joint, angle))
}

// Rest parks every joint at its rest angle.
func (e *Engine) Rest() {
	e.Perform(RestGesture)
}

// run executes steps strictly in order. A failed step does not abort
// the remainder: link failures are link-wide, and finishing the
// sequence beats silently stalling the caller.
func (e *Engine) run(spec GestureSpec) {
	for _, s := range spec.Steps {
		if _, err := e.sender.Send(Move(s.Joint, s.Angle)); err != nil {
			log.Warn("gesture step rejected", "gesture", spec.Name, "joint", s.Joint, "err", err)
		}
		if s.Hold > 0 {
			e.sleep(s.Hold)
		}
	}
}
