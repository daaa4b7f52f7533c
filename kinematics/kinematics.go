// Package kinematics provides the forward-kinematics collaborators consumed
// by task-space cost terms: a scalar-generic serial-chain solver that lets
// dual numbers flow through the kinematics, and an adapter over rdk
// referenceframe models for plain evaluation.
package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"posecost/lin"
	"posecost/rbd"
	"posecost/scalar"
)

// Forward computes world-frame end-effector poses from a base pose and joint
// positions. Implementations are stateless.
type Forward[T scalar.Number[T]] interface {
	NumJoints() int
	NumEndEffectors() int
	EEPositionInWorld(ee int, base rbd.Pose[T], joints []T) (lin.Vec[T], error)
	EEOrientationInWorld(ee int, base rbd.Pose[T], joints []T) (lin.Mat[T], error)
}

// Joint is one revolute joint in a chain: a fixed translation from the parent
// frame followed by a rotation about Axis by the joint value at Index.
type Joint struct {
	// Index into the robot's joint-position vector.
	Index int
	// Axis is the unit rotation axis, expressed in the parent frame.
	Axis r3.Vector
	// Offset is the fixed translation from the parent frame.
	Offset r3.Vector
}

// Chain is a serial kinematic chain ending in one end-effector.
type Chain struct {
	Joints []Joint
	// EEOffset is the tool point in the final joint frame.
	EEOffset r3.Vector
}

// Robot describes a robot as a set of serial chains over one shared
// joint-position vector, one chain per end-effector. A Robot is immutable
// once built and safe to share across solvers.
type Robot struct {
	NJoints int
	Chains  []Chain
}

// Validate checks joint indices and rotation axes.
func (r *Robot) Validate() error {
	if r.NJoints < 0 {
		return errors.Errorf("robot has negative joint count %d", r.NJoints)
	}
	for ci, c := range r.Chains {
		for ji, j := range c.Joints {
			if j.Index < 0 || j.Index >= r.NJoints {
				return errors.Errorf("chain %d joint %d: index %d out of range [0,%d)", ci, ji, j.Index, r.NJoints)
			}
			if math.Abs(j.Axis.Norm()-1) > 1e-9 {
				return errors.Errorf("chain %d joint %d: rotation axis must be a unit vector", ci, ji)
			}
		}
	}
	return nil
}

// Solver instantiates the generic forward kinematics for the scalar type T.
// The same description serves both the plain and the differentiable solver.
func Solver[T scalar.Number[T]](r *Robot) Forward[T] {
	return chainSolver[T]{robot: r}
}

type chainSolver[T scalar.Number[T]] struct {
	robot *Robot
}

func (s chainSolver[T]) NumJoints() int       { return s.robot.NJoints }
func (s chainSolver[T]) NumEndEffectors() int { return len(s.robot.Chains) }

func (s chainSolver[T]) eePose(ee int, base rbd.Pose[T], joints []T) (rbd.Pose[T], error) {
	if ee < 0 || ee >= len(s.robot.Chains) {
		return rbd.Pose[T]{}, errors.Errorf("end-effector index %d out of range [0,%d)", ee, len(s.robot.Chains))
	}
	if len(joints) != s.robot.NJoints {
		return rbd.Pose[T]{}, rbd.DimensionMismatchError{Want: s.robot.NJoints, Got: len(joints)}
	}

	pos := base.Position
	rot := base.Rotation
	chain := s.robot.Chains[ee]
	for _, j := range chain.Joints {
		pos = pos.Add(rot.MulVec(lin.VecFromR3[T](j.Offset)))
		rot = rot.Mul(lin.RotAxisAngle(j.Axis, joints[j.Index]))
	}
	pos = pos.Add(rot.MulVec(lin.VecFromR3[T](chain.EEOffset)))

	return rbd.Pose[T]{Position: pos, Rotation: rot}, nil
}

func (s chainSolver[T]) EEPositionInWorld(ee int, base rbd.Pose[T], joints []T) (lin.Vec[T], error) {
	p, err := s.eePose(ee, base, joints)
	if err != nil {
		return lin.Vec[T]{}, err
	}
	return p.Position, nil
}

func (s chainSolver[T]) EEOrientationInWorld(ee int, base rbd.Pose[T], joints []T) (lin.Mat[T], error) {
	p, err := s.eePose(ee, base, joints)
	if err != nil {
		return lin.Mat[T]{}, err
	}
	return p.Rotation, nil
}
