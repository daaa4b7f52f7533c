package lin

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"

	"posecost/scalar"
)

func assertMatInDelta(t *testing.T, want, got Mat[scalar.Real], tol float64) {
	t.Helper()
	w, g := want.Floats(), got.Floats()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, w[i][j], g[i][j], tol, "entry (%d,%d)", i, j)
		}
	}
}

func TestVecOps(t *testing.T) {
	a := NewVec[scalar.Real](1, 2, 3)
	b := VecFromR3[scalar.Real](r3.Vector{X: 4, Y: 5, Z: 6})

	assert.Equal(t, [3]float64{5, 7, 9}, a.Add(b).Floats())
	assert.Equal(t, [3]float64{-3, -3, -3}, a.Sub(b).Floats())
	assert.Equal(t, 32.0, a.Dot(b).Float())
}

func TestMatOps(t *testing.T) {
	m := MatFromFloats[scalar.Real]([3][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	t.Run("transpose", func(t *testing.T) {
		assert.Equal(t, [3][3]float64{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}, m.Transpose().Floats())
	})

	t.Run("identity product", func(t *testing.T) {
		assert.Equal(t, m.Floats(), m.Mul(Identity[scalar.Real]()).Floats())
		assert.Equal(t, m.Floats(), Identity[scalar.Real]().Mul(m).Floats())
	})

	t.Run("matrix vector product", func(t *testing.T) {
		v := NewVec[scalar.Real](1, 0, -1)
		assert.Equal(t, [3]float64{-2, -2, -2}, m.MulVec(v).Floats())
	})

	t.Run("frobenius norm", func(t *testing.T) {
		// ||I||_F = sqrt(3)
		assert.InDelta(t, math.Sqrt(3), Identity[scalar.Real]().Norm().Float(), 1e-12)
	})

	t.Run("quadratic form", func(t *testing.T) {
		q := Identity[scalar.Real]()
		v := NewVec[scalar.Real](1, 2, 2)
		assert.Equal(t, 9.0, QuadForm(q, v).Float())
	})
}

func TestRotations(t *testing.T) {
	const tol = 1e-12
	half := scalar.Real(math.Pi / 2)

	t.Run("axis rotations move basis vectors", func(t *testing.T) {
		ex := NewVec[scalar.Real](1, 0, 0)
		ey := NewVec[scalar.Real](0, 1, 0)
		ez := NewVec[scalar.Real](0, 0, 1)

		got := RotZ(half).MulVec(ex).Floats()
		assert.InDelta(t, 0, got[0], tol)
		assert.InDelta(t, 1, got[1], tol)

		got = RotX(half).MulVec(ey).Floats()
		assert.InDelta(t, 0, got[1], tol)
		assert.InDelta(t, 1, got[2], tol)

		got = RotY(half).MulVec(ez).Floats()
		assert.InDelta(t, 1, got[0], tol)
		assert.InDelta(t, 0, got[2], tol)
	})

	t.Run("euler composition order is intrinsic XYZ", func(t *testing.T) {
		a, b, c := scalar.Real(0.3), scalar.Real(-0.7), scalar.Real(1.1)
		want := RotX(a).Mul(RotY(b)).Mul(RotZ(c))
		assertMatInDelta(t, want, RotEulerXYZ(a, b, c), tol)
	})

	t.Run("quaternion matches axis rotation", func(t *testing.T) {
		// quaternion for a rotation of pi/2 about z
		w := scalar.Real(math.Cos(math.Pi / 4))
		z := scalar.Real(math.Sin(math.Pi / 4))
		zero := scalar.Real(0)
		assertMatInDelta(t, RotZ(half), RotQuat(w, zero, zero, z), tol)
	})

	t.Run("quaternion is normalized before conversion", func(t *testing.T) {
		// same quaternion scaled by 10 gives the same rotation
		w := scalar.Real(10 * math.Cos(math.Pi/4))
		z := scalar.Real(10 * math.Sin(math.Pi/4))
		zero := scalar.Real(0)
		assertMatInDelta(t, RotZ(half), RotQuat(w, zero, zero, z), tol)
	})

	t.Run("axis angle matches axis rotations", func(t *testing.T) {
		a := scalar.Real(0.8)
		assertMatInDelta(t, RotZ(a), RotAxisAngle(r3.Vector{Z: 1}, a), tol)
		assertMatInDelta(t, RotX(a), RotAxisAngle(r3.Vector{X: 1}, a), tol)
		assertMatInDelta(t, RotY(a), RotAxisAngle(r3.Vector{Y: 1}, a), tol)
	})

	t.Run("rotations are proper", func(t *testing.T) {
		r := RotEulerXYZ[scalar.Real](0.4, 0.5, 0.6)
		rtr := r.Transpose().Mul(r)
		assertMatInDelta(t, Identity[scalar.Real](), rtr, tol)
	})
}

func TestDualFlowsThroughAlgebra(t *testing.T) {
	// d/da of the (0,0) entry of RotZ(a) is -sin(a)
	a := scalar.Var(0.6)
	m := RotZ(a)
	assert.InDelta(t, math.Cos(0.6), m[0][0].Float(), 1e-12)
	assert.InDelta(t, -math.Sin(0.6), m[0][0].Deriv(), 1e-12)

	// derivative of a quadratic form q(v) = v^T I v with v = (a, 0, 0) is 2a
	v := Vec[scalar.Dual]{a, scalar.C[scalar.Dual](0), scalar.C[scalar.Dual](0)}
	q := QuadForm(Identity[scalar.Dual](), v)
	assert.InDelta(t, 0.36, q.Float(), 1e-12)
	assert.InDelta(t, 1.2, q.Deriv(), 1e-12)
}
