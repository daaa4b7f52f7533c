// Package scalar provides the numeric types that cost terms are generic over:
// a plain float64 scalar for direct evaluation and a forward-mode dual number
// for derivative extraction. Code written against the Number constraint runs
// identically for both.
package scalar

import (
	"math"

	"gonum.org/v1/gonum/num/dual"
)

// Number is the arithmetic contract shared by Real and Dual. The Const method
// lifts a float64 constant into the scalar type and may be called on the zero
// value of T.
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Sqrt() T
	Sin() T
	Cos() T
	Const(float64) T
	Float() float64
}

// Real is the plain evaluation scalar.
type Real float64

func (r Real) Add(o Real) Real { return r + o }
func (r Real) Sub(o Real) Real { return r - o }
func (r Real) Mul(o Real) Real { return r * o }
func (r Real) Div(o Real) Real { return r / o }
func (r Real) Sqrt() Real      { return Real(math.Sqrt(float64(r))) }
func (r Real) Sin() Real       { return Real(math.Sin(float64(r))) }
func (r Real) Cos() Real       { return Real(math.Cos(float64(r))) }

// Const lifts v into a Real; the receiver is ignored.
func (Real) Const(v float64) Real { return Real(v) }

// Float returns the underlying value.
func (r Real) Float() float64 { return float64(r) }

// Dual is the differentiable scalar. Arithmetic propagates the derivative
// component alongside the value, so seeding one input with Var and reading
// Deriv off the result yields an exact partial derivative.
type Dual struct {
	n dual.Number
}

// NewDual builds a dual number with value v and derivative component e.
func NewDual(v, e float64) Dual {
	return Dual{dual.Number{Real: v, Emag: e}}
}

// Var builds a dual number seeded as the variable of differentiation.
func Var(v float64) Dual { return NewDual(v, 1) }

func (d Dual) Add(o Dual) Dual { return Dual{dual.Add(d.n, o.n)} }
func (d Dual) Sub(o Dual) Dual { return Dual{dual.Sub(d.n, o.n)} }
func (d Dual) Mul(o Dual) Dual { return Dual{dual.Mul(d.n, o.n)} }
func (d Dual) Div(o Dual) Dual { return Dual{dual.Mul(d.n, dual.Inv(o.n))} }
func (d Dual) Sqrt() Dual      { return Dual{dual.Sqrt(d.n)} }
func (d Dual) Sin() Dual       { return Dual{dual.Sin(d.n)} }
func (d Dual) Cos() Dual       { return Dual{dual.Cos(d.n)} }

// Const lifts v into a Dual constant (zero derivative); the receiver is ignored.
func (Dual) Const(v float64) Dual { return NewDual(v, 0) }

// Float returns the value component.
func (d Dual) Float() float64 { return d.n.Real }

// Deriv returns the derivative component.
func (d Dual) Deriv() float64 { return d.n.Emag }

// C lifts a float64 constant into any scalar type.
func C[T Number[T]](v float64) T {
	var zero T
	return zero.Const(v)
}

// FromFloats lifts a float64 slice into constants of T.
func FromFloats[T Number[T]](xs []float64) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[i] = C[T](x)
	}
	return out
}

// Floats extracts the value components of a scalar slice.
func Floats[T Number[T]](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Float()
	}
	return out
}
