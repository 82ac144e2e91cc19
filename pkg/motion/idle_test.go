package motion

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rufuslabs/go-rufus/pkg/servo"
)

// fakeGate is a settable suppression signal.
type fakeGate struct{ suppressed atomic.Bool }

func (g *fakeGate) Suppressed() bool { return g.suppressed.Load() }

func fastAnimatorConfig() AnimatorConfig {
	return AnimatorConfig{
		MinInterval: 10 * time.Millisecond,
		MaxInterval: 20 * time.Millisecond,
		Hold:        5 * time.Millisecond,
		Slice:       5 * time.Millisecond,
		WiggleSpan:  15,
		JoinTimeout: time.Second,
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestAnimator_StopBeforeFirstCycle(t *testing.T) {
	rec := &recorder{}
	cfg := fastAnimatorConfig()
	cfg.MinInterval = 100 * time.Millisecond
	cfg.MaxInterval = 200 * time.Millisecond
	a := NewAnimator(rec, servo.Default(), &fakeGate{}, testRand(), cfg)

	a.Start()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	a.Stop()
	assert.Less(t, time.Since(start), time.Second, "stop must join within the bounded window")
	assert.Empty(t, rec.recorded(), "no command before the first interval elapsed")
	assert.Equal(t, RunStopped, a.State())
}

func TestAnimator_SuppressionBlocksAllSends(t *testing.T) {
	rec := &recorder{}
	gate := &fakeGate{}
	gate.suppressed.Store(true)
	a := NewAnimator(rec, servo.Default(), gate, testRand(), fastAnimatorConfig())

	a.Start()
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, rec.recorded(), "suppressed animator must issue zero sends")

	// releasing suppression lets the next cycle proceed
	gate.suppressed.Store(false)
	require.Eventually(t, func() bool {
		return len(rec.recorded()) > 0
	}, time.Second, 10*time.Millisecond, "animator never resumed after release")

	a.Stop()
}

func TestAnimator_WiggleStaysInRangeAndReturns(t *testing.T) {
	rec := &recorder{}
	reg := servo.Default()
	a := NewAnimator(rec, reg, &fakeGate{}, testRand(), fastAnimatorConfig())

	a.Start()
	require.Eventually(t, func() bool {
		return len(rec.recorded()) >= 4
	}, 2*time.Second, 10*time.Millisecond)
	a.Stop()

	cmds := rec.recorded()
	for i := 0; i+1 < len(cmds); i += 2 {
		j, err := reg.Lookup(cmds[i].Joint)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cmds[i].Angle, j.Min)
		assert.LessOrEqual(t, cmds[i].Angle, j.Max)

		// each wiggle is followed by a return to that joint's rest
		assert.Equal(t, j.Name, cmds[i+1].Joint)
		assert.Equal(t, j.Rest, cmds[i+1].Angle)
	}
}

func TestAnimator_StopIdempotent(t *testing.T) {
	rec := &recorder{}
	a := NewAnimator(rec, servo.Default(), &fakeGate{}, testRand(), fastAnimatorConfig())

	// never started
	a.Stop()
	assert.Equal(t, RunStopped, a.State())

	a.Start()
	a.Stop()
	a.Stop()
	assert.Equal(t, RunStopped, a.State())
}

func TestAnimator_Restartable(t *testing.T) {
	rec := &recorder{}
	a := NewAnimator(rec, servo.Default(), &fakeGate{}, testRand(), fastAnimatorConfig())

	a.Start()
	a.Stop()
	a.Start()
	assert.Equal(t, RunRunning, a.State())
	a.Stop()
}

func TestAnimator_DoubleStartIsNoOp(t *testing.T) {
	rec := &recorder{}
	a := NewAnimator(rec, servo.Default(), &fakeGate{}, testRand(), fastAnimatorConfig())

	a.Start()
	a.Start()
	assert.Equal(t, RunRunning, a.State())
	a.Stop()
}
