package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"

	"posecost/lin"
	"posecost/rbd"
	"posecost/scalar"
)

// FrameModel adapts an rdk referenceframe model to the Forward interface for
// plain evaluation. The model computes the end-effector pose in its own root
// frame; the base pose is composed on top. rdk models expose a single tool
// frame, so the only valid end-effector index is 0.
//
// FrameModel cannot carry dual numbers through the kinematics; use a Robot
// description with Solver when derivatives are needed.
type FrameModel struct {
	model referenceframe.Model
}

// NewFrameModel wraps an existing referenceframe model.
func NewFrameModel(model referenceframe.Model) *FrameModel {
	return &FrameModel{model: model}
}

// ParseFrameModelJSON builds a FrameModel from rdk kinematics JSON.
func ParseFrameModelJSON(jsonData []byte, name string) (*FrameModel, error) {
	model, err := referenceframe.UnmarshalModelJSON(jsonData, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse kinematics model")
	}
	return NewFrameModel(model), nil
}

// ParseFrameModelFile builds a FrameModel from an rdk kinematics JSON file.
func ParseFrameModelFile(path, name string) (*FrameModel, error) {
	model, err := referenceframe.ParseModelJSONFile(path, name)
	if err != nil {
		return nil, err
	}
	return NewFrameModel(model), nil
}

func (m *FrameModel) NumJoints() int       { return len(m.model.DoF()) }
func (m *FrameModel) NumEndEffectors() int { return 1 }

func (m *FrameModel) eePose(ee int, base rbd.Pose[scalar.Real], joints []scalar.Real) (spatialmath.Pose, error) {
	if ee != 0 {
		return nil, errors.Errorf("frame model has a single end-effector, got index %d", ee)
	}
	if len(joints) != m.NumJoints() {
		return nil, rbd.DimensionMismatchError{Want: m.NumJoints(), Got: len(joints)}
	}

	inputs := []referenceframe.Input(scalar.Floats(joints))
	local, err := referenceframe.ComputeOOBPosition(m.model, inputs)
	if err != nil {
		return nil, errors.Wrap(err, "forward kinematics failed")
	}

	basePose, err := spatialPose(base)
	if err != nil {
		return nil, err
	}
	return spatialmath.Compose(basePose, local), nil
}

func (m *FrameModel) EEPositionInWorld(
	ee int, base rbd.Pose[scalar.Real], joints []scalar.Real,
) (lin.Vec[scalar.Real], error) {
	pose, err := m.eePose(ee, base, joints)
	if err != nil {
		return lin.Vec[scalar.Real]{}, err
	}
	return lin.VecFromR3[scalar.Real](pose.Point()), nil
}

func (m *FrameModel) EEOrientationInWorld(
	ee int, base rbd.Pose[scalar.Real], joints []scalar.Real,
) (lin.Mat[scalar.Real], error) {
	pose, err := m.eePose(ee, base, joints)
	if err != nil {
		return lin.Mat[scalar.Real]{}, err
	}
	return lin.MatFromRotation[scalar.Real](pose.Orientation().RotationMatrix()), nil
}

func spatialPose(p rbd.Pose[scalar.Real]) (spatialmath.Pose, error) {
	rows := p.Rotation.Floats()
	rm, err := spatialmath.NewRotationMatrix([]float64{
		rows[0][0], rows[0][1], rows[0][2],
		rows[1][0], rows[1][1], rows[1][2],
		rows[2][0], rows[2][1], rows[2][2],
	})
	if err != nil {
		return nil, errors.Wrap(err, "base pose has an invalid rotation")
	}
	pt := p.Position.Floats()
	return spatialmath.NewPose(r3.Vector{X: pt[0], Y: pt[1], Z: pt[2]}, rm), nil
}
