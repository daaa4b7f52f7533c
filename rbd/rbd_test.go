package rbd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posecost/lin"
	"posecost/scalar"
)

func TestFixedBase(t *testing.T) {
	interp := NewFixedBase[scalar.Real](3)
	assert.Equal(t, 3, interp.NJoints())
	assert.Equal(t, 6, interp.StateDim())

	t.Run("slices positions and velocities", func(t *testing.T) {
		state, err := interp.Reconstruct(scalar.FromFloats[scalar.Real]([]float64{1, 2, 3, 4, 5, 6}))
		require.NoError(t, err)

		assert.Equal(t, []float64{1, 2, 3}, scalar.Floats(state.JointPositions))
		assert.Equal(t, []float64{4, 5, 6}, scalar.Floats(state.JointVelocities))
		assert.Equal(t, [3]float64{0, 0, 0}, state.Base.Position.Floats())
		assert.Equal(t, lin.Identity[scalar.Real]().Floats(), state.Base.Rotation.Floats())
	})

	t.Run("rejects wrong dimension", func(t *testing.T) {
		_, err := interp.Reconstruct(make([]scalar.Real, 7))
		var dimErr DimensionMismatchError
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 6, dimErr.Want)
		assert.Equal(t, 7, dimErr.Got)
	})
}

func TestFloatingBaseEuler(t *testing.T) {
	interp := NewFloatingBase[scalar.Real](2, BaseEulerXYZ)
	assert.Equal(t, 16, interp.StateDim()) // 2 * (6 + 2)

	// layout: euler(3), base position(3), q(2), base twist(6), qd(2)
	x := []float64{
		0, 0, math.Pi / 2,
		10, 20, 30,
		0.1, 0.2,
		0, 0, 0, 0, 0, 0,
		0.3, 0.4,
	}
	state, err := interp.Reconstruct(scalar.FromFloats[scalar.Real](x))
	require.NoError(t, err)

	assert.Equal(t, [3]float64{10, 20, 30}, state.Base.Position.Floats())
	assert.Equal(t, []float64{0.1, 0.2}, scalar.Floats(state.JointPositions))
	assert.Equal(t, []float64{0.3, 0.4}, scalar.Floats(state.JointVelocities))

	// yaw of pi/2 sends the base x axis to the world y axis
	ex := lin.NewVec[scalar.Real](1, 0, 0)
	rotated := state.Base.Rotation.MulVec(ex).Floats()
	assert.InDelta(t, 0, rotated[0], 1e-12)
	assert.InDelta(t, 1, rotated[1], 1e-12)
}

func TestFloatingBaseQuaternion(t *testing.T) {
	interp := NewFloatingBase[scalar.Real](2, BaseQuaternion)
	assert.Equal(t, 17, interp.StateDim()) // quaternion adds one entry

	// base orientation: pi/2 about z, packed w,x,y,z
	w, z := math.Cos(math.Pi/4), math.Sin(math.Pi/4)
	x := []float64{
		w, 0, 0, z,
		1, 2, 3,
		0.5, 0.6,
		0, 0, 0, 0, 0, 0,
		0, 0,
	}
	state, err := interp.Reconstruct(scalar.FromFloats[scalar.Real](x))
	require.NoError(t, err)

	assert.Equal(t, [3]float64{1, 2, 3}, state.Base.Position.Floats())
	assert.Equal(t, []float64{0.5, 0.6}, scalar.Floats(state.JointPositions))

	want := lin.RotZ(scalar.Real(math.Pi / 2)).Floats()
	got := state.Base.Rotation.Floats()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], got[i][j], 1e-12)
		}
	}
}

func TestReconstructCopiesJointSlices(t *testing.T) {
	interp := NewFixedBase[scalar.Real](1)
	x := scalar.FromFloats[scalar.Real]([]float64{1, 2})
	state, err := interp.Reconstruct(x)
	require.NoError(t, err)

	x[0] = 99
	assert.Equal(t, []float64{1}, scalar.Floats(state.JointPositions))
}
