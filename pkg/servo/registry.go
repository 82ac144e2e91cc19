package servo

import (
	"errors"
	"fmt"
)

// ErrUnknownJoint is returned when a joint name is not in the registry.
var ErrUnknownJoint = errors.New("servo: unknown joint")

// Registry is the static table of joints. Construction validates every
// joint; after that the registry is read-only.
type Registry struct {
	order  []string
	joints map[string]Joint
}

// NewRegistry builds a registry from the given joints, preserving their
// declared order. A range or rest violation is a configuration error.
func NewRegistry(joints ...Joint) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(joints)),
		joints: make(map[string]Joint, len(joints)),
	}
	for _, j := range joints {
		if err := j.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.joints[j.Name]; dup {
			return nil, fmt.Errorf("servo: duplicate joint %q", j.Name)
		}
		r.order = append(r.order, j.Name)
		r.joints[j.Name] = j
	}
	return r, nil
}

// Default returns the registry for the stock Rufus body: a head servo
// and two arms, with the ranges the frame can physically reach.
func Default() *Registry {
	r, err := NewRegistry(
		Joint{Name: "head", Pin: 9, Min: 40, Max: 120, Rest: 90},
		Joint{Name: "left_arm", Pin: 10, Min: 0, Max: 80, Rest: 40},
		Joint{Name: "right_arm", Pin: 8, Min: 90, Max: 180, Rest: 135},
	)
	if err != nil {
		// The builtin table is static; a failure here is a programming
		// defect, not a runtime condition.
		panic(err)
	}
	return r
}

// Lookup returns the named joint.
func (r *Registry) Lookup(name string) (Joint, error) {
	j, ok := r.joints[name]
	if !ok {
		return Joint{}, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
	}
	return j, nil
}

// Joints returns all joints in their declared order.
func (r *Registry) Joints() []Joint {
	out := make([]Joint, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.joints[name])
	}
	return out
}

// Names returns the joint names in their declared order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Clamp resolves name and clamps deg to that joint's safe range.
func (r *Registry) Clamp(name string, deg int) (int, error) {
	j, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return j.Clamp(deg), nil
}
