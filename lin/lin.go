// Package lin implements the small fixed-size vector and matrix algebra the
// cost terms need, generic over the scalar type so dual numbers flow through
// every operation. Plain float64 geometry stays in r3/spatialmath/gonum types;
// this package only covers the scalar-generic arithmetic those libraries
// cannot express.
package lin

import (
	"github.com/golang/geo/r3"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"

	"posecost/scalar"
)

// Vec is a 3-vector over the scalar type T.
type Vec[T scalar.Number[T]] [3]T

// Mat is a row-major 3x3 matrix over the scalar type T.
type Mat[T scalar.Number[T]] [3][3]T

// NewVec lifts three float64 components into a Vec.
func NewVec[T scalar.Number[T]](x, y, z float64) Vec[T] {
	return Vec[T]{scalar.C[T](x), scalar.C[T](y), scalar.C[T](z)}
}

// VecFromR3 lifts an r3.Vector into a Vec.
func VecFromR3[T scalar.Number[T]](v r3.Vector) Vec[T] {
	return NewVec[T](v.X, v.Y, v.Z)
}

func (v Vec[T]) Add(o Vec[T]) Vec[T] {
	return Vec[T]{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])}
}

func (v Vec[T]) Sub(o Vec[T]) Vec[T] {
	return Vec[T]{v[0].Sub(o[0]), v[1].Sub(o[1]), v[2].Sub(o[2])}
}

func (v Vec[T]) Dot(o Vec[T]) T {
	return v[0].Mul(o[0]).Add(v[1].Mul(o[1])).Add(v[2].Mul(o[2]))
}

// Floats extracts the value components.
func (v Vec[T]) Floats() [3]float64 {
	return [3]float64{v[0].Float(), v[1].Float(), v[2].Float()}
}

// Identity returns the 3x3 identity matrix over T.
func Identity[T scalar.Number[T]]() Mat[T] {
	one, zero := scalar.C[T](1), scalar.C[T](0)
	return Mat[T]{
		{one, zero, zero},
		{zero, one, zero},
		{zero, zero, one},
	}
}

// MatFromFloats lifts a row-major float64 matrix into a Mat.
func MatFromFloats[T scalar.Number[T]](m [3][3]float64) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = scalar.C[T](m[i][j])
		}
	}
	return out
}

// MatFromRotation lifts a spatialmath rotation matrix into a Mat.
func MatFromRotation[T scalar.Number[T]](rm *spatialmath.RotationMatrix) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = scalar.C[T](rm.At(i, j))
		}
	}
	return out
}

// MatFromSym lifts a 3x3 gonum symmetric matrix into a Mat.
func MatFromSym[T scalar.Number[T]](s mat.Symmetric) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = scalar.C[T](s.At(i, j))
		}
	}
	return out
}

func (m Mat[T]) Add(o Mat[T]) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j].Add(o[i][j])
		}
	}
	return out
}

func (m Mat[T]) Sub(o Mat[T]) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j].Sub(o[i][j])
		}
	}
	return out
}

func (m Mat[T]) Mul(o Mat[T]) Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := m[i][0].Mul(o[0][j])
			s = s.Add(m[i][1].Mul(o[1][j]))
			s = s.Add(m[i][2].Mul(o[2][j]))
			out[i][j] = s
		}
	}
	return out
}

func (m Mat[T]) MulVec(v Vec[T]) Vec[T] {
	var out Vec[T]
	for i := 0; i < 3; i++ {
		out[i] = m[i][0].Mul(v[0]).Add(m[i][1].Mul(v[1])).Add(m[i][2].Mul(v[2]))
	}
	return out
}

func (m Mat[T]) Transpose() Mat[T] {
	var out Mat[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Norm returns the Frobenius norm, the square root of the sum of squares of
// all entries.
func (m Mat[T]) Norm() T {
	s := scalar.C[T](0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s = s.Add(m[i][j].Mul(m[i][j]))
		}
	}
	return s.Sqrt()
}

// Floats extracts the value components row-major.
func (m Mat[T]) Floats() [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j].Float()
		}
	}
	return out
}

// QuadForm computes the scalar quadratic form v^T Q v.
func QuadForm[T scalar.Number[T]](q Mat[T], v Vec[T]) T {
	return v.Dot(q.MulVec(v))
}

// RotX returns the rotation matrix for angle a about the x axis.
func RotX[T scalar.Number[T]](a T) Mat[T] {
	s, c := a.Sin(), a.Cos()
	one, zero := scalar.C[T](1), scalar.C[T](0)
	return Mat[T]{
		{one, zero, zero},
		{zero, c, zero.Sub(s)},
		{zero, s, c},
	}
}

// RotY returns the rotation matrix for angle a about the y axis.
func RotY[T scalar.Number[T]](a T) Mat[T] {
	s, c := a.Sin(), a.Cos()
	one, zero := scalar.C[T](1), scalar.C[T](0)
	return Mat[T]{
		{c, zero, s},
		{zero, one, zero},
		{zero.Sub(s), zero, c},
	}
}

// RotZ returns the rotation matrix for angle a about the z axis.
func RotZ[T scalar.Number[T]](a T) Mat[T] {
	s, c := a.Sin(), a.Cos()
	one, zero := scalar.C[T](1), scalar.C[T](0)
	return Mat[T]{
		{c, zero.Sub(s), zero},
		{s, c, zero},
		{zero, zero, one},
	}
}

// RotEulerXYZ composes intrinsic X-Y-Z axis rotations, Rx(a)*Ry(b)*Rz(c).
func RotEulerXYZ[T scalar.Number[T]](a, b, c T) Mat[T] {
	return RotX(a).Mul(RotY(b)).Mul(RotZ(c))
}

// RotQuat converts a quaternion (w,x,y,z) to a rotation matrix. The
// quaternion is normalized first, so any nonzero quaternion yields a proper
// rotation.
func RotQuat[T scalar.Number[T]](w, x, y, z T) Mat[T] {
	n := w.Mul(w).Add(x.Mul(x)).Add(y.Mul(y)).Add(z.Mul(z)).Sqrt()
	w, x, y, z = w.Div(n), x.Div(n), y.Div(n), z.Div(n)

	one, two := scalar.C[T](1), scalar.C[T](2)
	xx, yy, zz := x.Mul(x), y.Mul(y), z.Mul(z)
	xy, xz, yz := x.Mul(y), x.Mul(z), y.Mul(z)
	wx, wy, wz := w.Mul(x), w.Mul(y), w.Mul(z)

	return Mat[T]{
		{
			one.Sub(two.Mul(yy.Add(zz))),
			two.Mul(xy.Sub(wz)),
			two.Mul(xz.Add(wy)),
		},
		{
			two.Mul(xy.Add(wz)),
			one.Sub(two.Mul(xx.Add(zz))),
			two.Mul(yz.Sub(wx)),
		},
		{
			two.Mul(xz.Sub(wy)),
			two.Mul(yz.Add(wx)),
			one.Sub(two.Mul(xx.Add(yy))),
		},
	}
}

// RotAxisAngle returns the rotation by angle a about the given unit axis
// (Rodrigues form).
func RotAxisAngle[T scalar.Number[T]](axis r3.Vector, a T) Mat[T] {
	s, c := a.Sin(), a.Cos()
	one := scalar.C[T](1)
	ic := one.Sub(c)
	ux, uy, uz := scalar.C[T](axis.X), scalar.C[T](axis.Y), scalar.C[T](axis.Z)

	return Mat[T]{
		{
			c.Add(ux.Mul(ux).Mul(ic)),
			ux.Mul(uy).Mul(ic).Sub(uz.Mul(s)),
			ux.Mul(uz).Mul(ic).Add(uy.Mul(s)),
		},
		{
			uy.Mul(ux).Mul(ic).Add(uz.Mul(s)),
			c.Add(uy.Mul(uy).Mul(ic)),
			uy.Mul(uz).Mul(ic).Sub(ux.Mul(s)),
		},
		{
			uz.Mul(ux).Mul(ic).Sub(uy.Mul(s)),
			uz.Mul(uy).Mul(ic).Add(ux.Mul(s)),
			c.Add(uz.Mul(uz).Mul(ic)),
		},
	}
}
