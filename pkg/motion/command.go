// Package motion coordinates all servo movement: a command channel
// that serializes and clamps every outbound instruction, a gesture
// engine for foreground sequences, an idle animator for background
// wiggles, and the arbiter that keeps the two from fighting over the
// hardware.
package motion

import (
	"errors"
	"fmt"
)

// Command is a single outbound instruction. Either a joint move or a
// bare firmware token; constructed by a caller and consumed
// immediately by the channel, never stored.
type Command struct {
	// Joint names the target joint for a move command.
	Joint string

	// Angle is the requested angle in degrees, clamped by the channel
	// before it reaches the wire.
	Angle int

	// Token, when non-empty, is a firmware-native command sent as-is
	// ("yes", "rest", ...). Joint and Angle are ignored.
	Token string
}

// Move builds a joint move command.
func Move(joint string, angle int) Command {
	return Command{Joint: joint, Angle: angle}
}

// Token builds a bare firmware command.
func Token(tok string) Command {
	return Command{Token: tok}
}

// String renders the command for logs.
func (c Command) String() string {
	if c.Token != "" {
		return c.Token
	}
	return fmt.Sprintf("%s->%d", c.Joint, c.Angle)
}

// Outcome is the result of one send attempt.
type Outcome int

const (
	// OutcomeSent means the command went out. Includes soft-success:
	// a missing or unrecognized acknowledgment still counts as sent.
	OutcomeSent Outcome = iota

	// OutcomeUnavailable means no hardware accepted the command. Not
	// fatal to the calling activity; motion degrades silently.
	OutcomeUnavailable

	// OutcomeRejected means the command itself was invalid (unknown
	// joint). A caller defect, reported loudly.
	OutcomeRejected
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Sender is the interface the gesture engine and idle animator send
// through. The Channel implements it; tests use a recorder.
type Sender interface {
	Send(cmd Command) (Outcome, error)
}

// ErrUnknownGesture is returned for gesture names not in the table.
var ErrUnknownGesture = errors.New("motion: unknown gesture")
