package rbd

import (
	"posecost/lin"
	"posecost/scalar"
)

// BaseEncoding selects how a floating base's orientation is packed into the
// state vector.
type BaseEncoding int

const (
	// BaseEulerXYZ packs the base orientation as three intrinsic X-Y-Z Euler
	// angles.
	BaseEulerXYZ BaseEncoding = iota
	// BaseQuaternion packs the base orientation as a w,x,y,z quaternion,
	// lengthening the state vector by one.
	BaseQuaternion
)

// Interpreter reconstructs a structured State from a flat generalized-state
// vector. The base-mobility variant is fixed when the interpreter is built;
// there is no per-call dispatch on robot topology.
type Interpreter[T scalar.Number[T]] interface {
	// NJoints is the robot's joint count.
	NJoints() int
	// StateDim is the exact generalized-state dimension this interpreter
	// accepts.
	StateDim() int
	// Reconstruct slices x into base pose, joint positions and velocities.
	// It returns DimensionMismatchError if len(x) != StateDim().
	Reconstruct(x []T) (State[T], error)
}

// NewFloatingBase builds the interpreter for a robot whose base moves freely.
//
// The vector layout is base orientation, base position, joint positions, then
// the same blocks for velocities: with Euler encoding the total dimension is
// 2*(6+n), with quaternion encoding 2*(6+n)+1 (velocities always use the
// 6-dimensional twist).
func NewFloatingBase[T scalar.Number[T]](nJoints int, enc BaseEncoding) Interpreter[T] {
	return floatingBase[T]{nJoints: nJoints, enc: enc}
}

// NewFixedBase builds the interpreter for a robot rigidly attached to the
// world: the state is joint positions followed by joint velocities, dimension
// 2*n, and the base pose is identity.
func NewFixedBase[T scalar.Number[T]](nJoints int) Interpreter[T] {
	return fixedBase[T]{nJoints: nJoints}
}

type floatingBase[T scalar.Number[T]] struct {
	nJoints int
	enc     BaseEncoding
}

func (f floatingBase[T]) NJoints() int { return f.nJoints }

func (f floatingBase[T]) StateDim() int {
	dim := 2 * (6 + f.nJoints)
	if f.enc == BaseQuaternion {
		dim++
	}
	return dim
}

func (f floatingBase[T]) Reconstruct(x []T) (State[T], error) {
	if len(x) != f.StateDim() {
		return State[T]{}, DimensionMismatchError{Want: f.StateDim(), Got: len(x)}
	}

	var rot lin.Mat[T]
	i := 0
	switch f.enc {
	case BaseQuaternion:
		rot = lin.RotQuat(x[0], x[1], x[2], x[3])
		i = 4
	default:
		rot = lin.RotEulerXYZ(x[0], x[1], x[2])
		i = 3
	}

	pos := lin.Vec[T]{x[i], x[i+1], x[i+2]}
	i += 3

	q := make([]T, f.nJoints)
	copy(q, x[i:i+f.nJoints])
	i += f.nJoints

	// skip the 6-dimensional base twist
	i += 6

	qd := make([]T, f.nJoints)
	copy(qd, x[i:i+f.nJoints])

	return State[T]{
		Base:            Pose[T]{Position: pos, Rotation: rot},
		JointPositions:  q,
		JointVelocities: qd,
	}, nil
}

type fixedBase[T scalar.Number[T]] struct {
	nJoints int
}

func (f fixedBase[T]) NJoints() int  { return f.nJoints }
func (f fixedBase[T]) StateDim() int { return 2 * f.nJoints }

func (f fixedBase[T]) Reconstruct(x []T) (State[T], error) {
	if len(x) != f.StateDim() {
		return State[T]{}, DimensionMismatchError{Want: f.StateDim(), Got: len(x)}
	}

	q := make([]T, f.nJoints)
	copy(q, x[:f.nJoints])
	qd := make([]T, f.nJoints)
	copy(qd, x[f.nJoints:])

	return State[T]{
		Base:            IdentityPose[T](),
		JointPositions:  q,
		JointVelocities: qd,
	}, nil
}
