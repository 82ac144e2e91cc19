// Package servo describes the robot's servo-driven joints and their
// safe operating ranges. The registry is the single source of truth for
// which joints exist and where they are allowed to move.
package servo

import "fmt"

// Joint is a single servo-driven degree of freedom. Immutable after
// registry construction.
type Joint struct {
	// Name identifies the joint to callers ("head", "left_arm", ...).
	Name string

	// Pin is the wire identifier the firmware understands.
	Pin int

	// Min and Max bound the safe angle range in degrees.
	Min int
	Max int

	// Rest is the neutral angle the joint returns to when idle.
	Rest int
}

// validate checks the construction-time invariant min <= rest <= max.
func (j Joint) validate() error {
	if j.Name == "" {
		return fmt.Errorf("servo: joint with pin %d has no name", j.Pin)
	}
	if j.Min > j.Max {
		return fmt.Errorf("servo: joint %q has inverted range [%d,%d]", j.Name, j.Min, j.Max)
	}
	if j.Rest < j.Min || j.Rest > j.Max {
		return fmt.Errorf("servo: joint %q rest angle %d outside range [%d,%d]", j.Name, j.Rest, j.Min, j.Max)
	}
	return nil
}

// Clamp returns the nearest angle to deg within the joint's safe range.
func (j Joint) Clamp(deg int) int {
	if deg < j.Min {
		return j.Min
	}
	if deg > j.Max {
		return j.Max
	}
	return deg
}
