package motion

import (
	"fmt"
	"sync"

	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/link"
	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// Line is the slice of the serial link the channel needs.
type Line interface {
	WriteLine(text string) (link.Ack, error)
	State() link.State
}

// Channel is the single funnel for outbound commands. All movement
// flows through here: it resolves the joint, clamps the angle, formats
// the wire line and holds one mutex across the whole write/ack round
// trip so two commands are never in flight at once.
type Channel struct {
	mu   sync.Mutex
	reg  *servo.Registry
	line Line // nil when no hardware is attached (simulation mode)

	down bool // link reported disconnected; sends fail fast from here on
}

// NewChannel creates a command channel over the given line. A nil line
// is valid and puts the channel in simulation mode, where every send
// reports OutcomeUnavailable without touching hardware.
func NewChannel(reg *servo.Registry, line Line) *Channel {
	return &Channel{reg: reg, line: line}
}

// Registry returns the joint table the channel clamps against.
func (c *Channel) Registry() *servo.Registry {
	return c.reg
}

// Available reports whether sends currently reach hardware.
func (c *Channel) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line != nil && !c.down
}

// Send performs one attempt to deliver the command. No retries: a
// failed step is the caller's policy problem, and hardware failures
// are typically link-wide anyway.
func (c *Channel) Send(cmd Command) (Outcome, error) {
	wire, err := c.format(cmd)
	if err != nil {
		log.Error("rejected command", "cmd", cmd.String(), "err", err)
		return OutcomeRejected, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.line == nil {
		log.Debug("simulation send", "wire", wire)
		return OutcomeUnavailable, nil
	}
	if c.down || c.line.State() == link.StateDisconnected {
		c.down = true
		return OutcomeUnavailable, nil
	}

	ack, err := c.line.WriteLine(wire)
	if err != nil {
		// Cable pulled or device reset. Stay degraded until restart;
		// reconnect policy lives outside this core.
		c.down = true
		log.Warn("link lost, degrading to unavailable", "wire", wire, "err", err)
		return OutcomeUnavailable, nil
	}

	log.Debug("sent", "wire", wire, "ack", ack)
	return OutcomeSent, nil
}

// format resolves and clamps the command into its wire line. Clamping
// here is the safety invariant: no caller-supplied angle reaches the
// link unclamped.
func (c *Channel) format(cmd Command) (string, error) {
	if cmd.Token != "" {
		return cmd.Token, nil
	}
	j, err := c.reg.Lookup(cmd.Joint)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d", j.Pin, j.Clamp(cmd.Angle)), nil
}
