package motion

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// recorder is a Sender that records every command in order.
type recorder struct {
	mu    sync.Mutex
	cmds  []Command
	delay time.Duration
}

func (r *recorder) Send(cmd Command) (Outcome, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return OutcomeSent, nil
}

func (r *recorder) recorded() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

func newTestEngine(rec *recorder) *Engine {
	e := NewEngine(rec, NewArbiter(), servo.Default())
	e.sleep = func(time.Duration) {} // holds are pointless in tests
	return e
}

func TestPerform_UnknownGesture(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(rec)

	assert.False(t, e.Perform("backflip"))
	assert.Empty(t, rec.recorded(), "unknown gestures must issue zero sends")
}

func TestPerform_RestOrder(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(rec)

	require.True(t, e.Perform("rest"))

	cmds := rec.recorded()
	require.Len(t, cmds, 3)
	assert.Equal(t, Command{Joint: "head", Angle: 90}, cmds[0])
	assert.Equal(t, Command{Joint: "left_arm", Angle: 40}, cmds[1])
	assert.Equal(t, Command{Joint: "right_arm", Angle: 135}, cmds[2])
}

func TestPerform_GestureEndsAtRest(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(rec)

	require.True(t, e.Perform("nod"))

	cmds := rec.recorded()
	require.GreaterOrEqual(t, len(cmds), 8, "nod steps plus the rest park")
	// last three commands park every joint in registry order
	tail := cmds[len(cmds)-3:]
	assert.Equal(t, "head", tail[0].Joint)
	assert.Equal(t, 90, tail[0].Angle)
	assert.Equal(t, "left_arm", tail[1].Joint)
	assert.Equal(t, 40, tail[1].Angle)
	assert.Equal(t, "right_arm", tail[2].Joint)
	assert.Equal(t, 135, tail[2].Angle)
}

func TestPerform_StepsInOrder(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(rec)

	require.True(t, e.Perform("wave"))

	cmds := rec.recorded()
	require.GreaterOrEqual(t, len(cmds), 4)
	assert.Equal(t, []Command{
		{Joint: "right_arm", Angle: 150},
		{Joint: "right_arm", Angle: 135},
		{Joint: "right_arm", Angle: 150},
		{Joint: "right_arm", Angle: 135},
	}, cmds[:4])
}

func TestPerformSteps_NoInterleaving(t *testing.T) {
	rec := &recorder{delay: time.Millisecond}
	e := newTestEngine(rec)

	stepsA := make([]Step, 5)
	stepsB := make([]Step, 5)
	for i := range stepsA {
		stepsA[i] = Step{Joint: "head", Angle: 50 + i}
		stepsB[i] = Step{Joint: "right_arm", Angle: 100 + i}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); e.PerformSteps(stepsA...) }()
	go func() { defer wg.Done(); e.PerformSteps(stepsB...) }()
	wg.Wait()

	cmds := rec.recorded()
	require.Len(t, cmds, 10)
	// whichever sequence went first, its five steps must be contiguous
	first := cmds[0].Joint
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, cmds[i].Joint, "gesture steps interleaved at %d", i)
	}
	for i := 5; i < 10; i++ {
		assert.NotEqual(t, first, cmds[i].Joint, "gesture steps interleaved at %d", i)
	}
}

func TestMove_ReportsOutcome(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(rec)

	outcome, err := e.Move("head", 500)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, outcome)

	cmds := rec.recorded()
	require.Len(t, cmds, 1)
	// the channel clamps; the engine passes the request through
	assert.Equal(t, Command{Joint: "head", Angle: 500}, cmds[0])
}

func TestNames_ContainsVocabulary(t *testing.T) {
	e := newTestEngine(&recorder{})
	names := e.Names()
	for _, want := range []string{"rest", "nod", "shake", "wave", "excited", "head_tilt", "thinking", "neutral"} {
		assert.Contains(t, names, want)
	}
	assert.True(t, e.Has(RestGesture))
}

func TestGestureForCategory(t *testing.T) {
	assert.Equal(t, "nod", GestureForCategory("yes"))
	assert.Equal(t, "shake", GestureForCategory("no"))
	assert.Equal(t, "rest", GestureForCategory("neutral"))
	assert.Equal(t, "rest", GestureForCategory("confused"))
	assert.Equal(t, "head_tilt", GestureForCategory("curious"))
}
