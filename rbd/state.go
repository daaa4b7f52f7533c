// Package rbd reconstructs structured rigid-body robot states from the flat
// generalized-state vectors an optimizer hands around.
package rbd

import (
	"fmt"

	"posecost/lin"
	"posecost/scalar"
)

// Pose is a world-frame pose over the scalar type T.
type Pose[T scalar.Number[T]] struct {
	Position lin.Vec[T]
	Rotation lin.Mat[T]
}

// IdentityPose returns the pose at the world origin with identity orientation.
func IdentityPose[T scalar.Number[T]]() Pose[T] {
	return Pose[T]{
		Position: lin.NewVec[T](0, 0, 0),
		Rotation: lin.Identity[T](),
	}
}

// State is a structured robot state: base pose, joint positions and joint
// velocities. Velocities are carried for interface completeness; pose costs
// do not read them.
type State[T scalar.Number[T]] struct {
	Base            Pose[T]
	JointPositions  []T
	JointVelocities []T
}

// DimensionMismatchError reports a generalized-state vector whose length is
// inconsistent with the robot's joint count and base mobility. It indicates a
// wiring error between the optimizer and the robot model, not a runtime
// condition.
type DimensionMismatchError struct {
	Want, Got int
}

func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("state vector has dimension %d, robot expects %d", e.Got, e.Want)
}
