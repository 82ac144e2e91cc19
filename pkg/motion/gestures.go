package motion

import (
	"time"

	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// Step is one movement in a gesture: drive a joint to an angle, then
// hold for the settle duration before the next step.
type Step struct {
	Joint string
	Angle int
	Hold  time.Duration
}

// GestureSpec is a named, pre-authored ordered sequence of steps.
// Defined once at startup, read-only thereafter.
type GestureSpec struct {
	Name  string
	Steps []Step
}

// RestGesture is the gesture that parks every joint at its rest
// angle. It always exists and runs at startup, after any explicit
// gesture, and at shutdown.
const RestGesture = "rest"

// builtinGestures authors the stock vocabulary against the given
// registry so every sequence starts and ends on real rest angles.
func builtinGestures(reg *servo.Registry) map[string]GestureSpec {
	rest := restSpec(reg)

	specs := []GestureSpec{
		rest,
		{Name: "nod", Steps: []Step{
			{Joint: "head", Angle: 110, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 70, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 110, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 70, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 90, Hold: 200 * time.Millisecond},
		}},
		{Name: "shake", Steps: []Step{
			{Joint: "head", Angle: 60, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 120, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 60, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 120, Hold: 200 * time.Millisecond},
			{Joint: "head", Angle: 90, Hold: 200 * time.Millisecond},
		}},
		{Name: "wave", Steps: []Step{
			{Joint: "right_arm", Angle: 150, Hold: 200 * time.Millisecond},
			{Joint: "right_arm", Angle: 135, Hold: 200 * time.Millisecond},
			{Joint: "right_arm", Angle: 150, Hold: 200 * time.Millisecond},
			{Joint: "right_arm", Angle: 135, Hold: 200 * time.Millisecond},
		}},
		{Name: "excited", Steps: []Step{
			{Joint: "left_arm", Angle: 60},
			{Joint: "right_arm", Angle: 150, Hold: 200 * time.Millisecond},
			{Joint: "left_arm", Angle: 40},
			{Joint: "right_arm", Angle: 135, Hold: 200 * time.Millisecond},
			{Joint: "left_arm", Angle: 60},
			{Joint: "right_arm", Angle: 150, Hold: 200 * time.Millisecond},
			{Joint: "left_arm", Angle: 40},
			{Joint: "right_arm", Angle: 135, Hold: 200 * time.Millisecond},
		}},
		{Name: "head_tilt", Steps: []Step{
			{Joint: "head", Angle: 100, Hold: time.Second},
			{Joint: "head", Angle: 90, Hold: 200 * time.Millisecond},
		}},
		{Name: "thinking", Steps: []Step{
			{Joint: "head", Angle: 70, Hold: 500 * time.Millisecond},
			{Joint: "head", Angle: 100, Hold: 500 * time.Millisecond},
			{Joint: "head", Angle: 90, Hold: 300 * time.Millisecond},
		}},
	}

	table := make(map[string]GestureSpec, len(specs)+1)
	for _, s := range specs {
		table[s.Name] = s
	}
	// legacy name from the firmware vocabulary
	table["neutral"] = GestureSpec{Name: "neutral", Steps: rest.Steps}
	return table
}

// restSpec expands the rest gesture: one move per joint, in the
// registry's declared order, to its rest angle.
func restSpec(reg *servo.Registry) GestureSpec {
	joints := reg.Joints()
	steps := make([]Step, 0, len(joints))
	for _, j := range joints {
		steps = append(steps, Step{Joint: j.Name, Angle: j.Rest, Hold: 100 * time.Millisecond})
	}
	return GestureSpec{Name: RestGesture, Steps: steps}
}

// categoryGestures is the fixed lookup from a coarse response
// category to a gesture name. Anything unrecognized rests.
var categoryGestures = map[string]string{
	"yes":      "nod",
	"no":       "shake",
	"thinking": "thinking",
	"excited":  "excited",
	"happy":    "excited",
	"curious":  "head_tilt",
	"greeting": "wave",
	"neutral":  RestGesture,
}

// GestureForCategory maps a coarse category or emotion tag from the
// conversation layer to a gesture name.
func GestureForCategory(category string) string {
	if name, ok := categoryGestures[category]; ok {
		return name
	}
	return RestGesture
}
