package servo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_ValidatesRest(t *testing.T) {
	_, err := NewRegistry(Joint{Name: "head", Pin: 9, Min: 40, Max: 120, Rest: 130})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rest angle")
}

func TestNewRegistry_ValidatesRange(t *testing.T) {
	_, err := NewRegistry(Joint{Name: "head", Pin: 9, Min: 120, Max: 40, Rest: 80})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted range")
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Joint{Name: "head", Pin: 9, Min: 0, Max: 180, Rest: 90},
		Joint{Name: "head", Pin: 10, Min: 0, Max: 180, Rest: 90},
	)
	require.Error(t, err)
}

func TestRegistry_PreservesOrder(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"head", "left_arm", "right_arm"}, r.Names())
}

func TestLookup_UnknownJoint(t *testing.T) {
	r := Default()
	_, err := r.Lookup("tail")
	require.ErrorIs(t, err, ErrUnknownJoint)
}

func TestClamp_Properties(t *testing.T) {
	r := Default()
	for _, j := range r.Joints() {
		for _, angle := range []int{-1000, j.Min - 1, j.Min, j.Rest, j.Max, j.Max + 1, 1000} {
			got := j.Clamp(angle)
			assert.GreaterOrEqual(t, got, j.Min, "joint %s angle %d", j.Name, angle)
			assert.LessOrEqual(t, got, j.Max, "joint %s angle %d", j.Name, angle)
			if angle >= j.Min && angle <= j.Max {
				assert.Equal(t, angle, got, "in-range angle must pass through")
			}
		}
	}
}

func TestRegistry_Clamp(t *testing.T) {
	r := Default()

	got, err := r.Clamp("head", 200)
	require.NoError(t, err)
	assert.Equal(t, 120, got)

	_, err = r.Clamp("tail", 90)
	require.ErrorIs(t, err, ErrUnknownJoint)
}

func TestDefault_RestWithinRange(t *testing.T) {
	for _, j := range Default().Joints() {
		assert.GreaterOrEqual(t, j.Rest, j.Min)
		assert.LessOrEqual(t, j.Rest, j.Max)
	}
}
