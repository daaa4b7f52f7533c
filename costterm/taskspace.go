package costterm

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"posecost/kinematics"
	"posecost/lin"
	"posecost/rbd"
	"posecost/scalar"
)

// DefaultTaskSpacePoseName names terms built without an explicit name.
const DefaultTaskSpacePoseName = "TermTaskspacePose"

// TaskSpacePose penalizes the world-frame deviation of one end-effector from
// a reference pose:
//
//	cost = posErr^T * Q_pos * posErr + Q_rot * ||R_ref^T * R_ee - I||_F
//
// The Frobenius-norm rotation measure is a smooth surrogate for geodesic
// rotation distance; it is zero exactly when the relative rotation is the
// identity and avoids inverse trigonometry, so it stays differentiable
// everywhere. Control and time inputs are accepted for interface uniformity
// and ignored.
//
// A term is read-only after construction or a successful LoadConfig, so
// independent clones may evaluate concurrently without locking.
type TaskSpacePose[T scalar.Number[T]] struct {
	name       string
	fk         kinematics.Forward[T]
	interp     rbd.Interpreter[T]
	controlDim int
	logger     logging.Logger

	eeIndex int
	qPos    *mat.SymDense
	qRot    float64
	refPos  r3.Vector
	refRot  *spatialmath.RotationMatrix
}

// newTaskSpacePose performs the construction-time contract checks shared by
// all constructors: the declared dimensions must match the robot's joint
// count and base mobility before any evaluation can happen.
func newTaskSpacePose[T scalar.Number[T]](
	name string,
	fk kinematics.Forward[T],
	interp rbd.Interpreter[T],
	stateDim, controlDim int,
	logger logging.Logger,
) (*TaskSpacePose[T], error) {
	if name == "" {
		name = DefaultTaskSpacePoseName
	}
	if fk == nil || interp == nil {
		return nil, errors.New("task-space pose term needs a kinematics solver and a state interpreter")
	}
	if stateDim != interp.StateDim() {
		return nil, errors.Wrap(
			rbd.DimensionMismatchError{Want: interp.StateDim(), Got: stateDim},
			"declared state dimension does not fit the robot",
		)
	}
	if fk.NumJoints() != interp.NJoints() {
		return nil, errors.Errorf(
			"kinematics has %d joints but the state interpreter expects %d",
			fk.NumJoints(), interp.NJoints(),
		)
	}
	if controlDim < 0 {
		return nil, errors.Errorf("negative control dimension %d", controlDim)
	}
	return &TaskSpacePose[T]{
		name:       name,
		fk:         fk,
		interp:     interp,
		controlDim: controlDim,
		logger:     logger,
	}, nil
}

// NewTaskSpacePose constructs a term with an explicit quaternion orientation
// reference (w,x,y,z in quat.Number convention). The quaternion is normalized
// before conversion to the stored rotation matrix.
func NewTaskSpacePose[T scalar.Number[T]](
	name string,
	fk kinematics.Forward[T],
	interp rbd.Interpreter[T],
	stateDim, controlDim int,
	eeIndex int,
	qPos *mat.SymDense,
	qRot float64,
	refPos r3.Vector,
	refQuat quat.Number,
	logger logging.Logger,
) (*TaskSpacePose[T], error) {
	c, err := newTaskSpacePose(name, fk, interp, stateDim, controlDim, logger)
	if err != nil {
		return nil, err
	}
	refRot, err := rotationFromQuat(refQuat)
	if err != nil {
		return nil, err
	}
	if err := c.setWeightsAndReference(eeIndex, qPos, qRot, refPos, refRot); err != nil {
		return nil, err
	}
	return c, nil
}

// NewTaskSpacePoseEulerXYZ constructs a term with the orientation reference
// given as intrinsic X-Y-Z Euler angles in radians. It delegates through the
// quaternion form, so both spellings of the same orientation produce the same
// stored rotation matrix.
func NewTaskSpacePoseEulerXYZ[T scalar.Number[T]](
	name string,
	fk kinematics.Forward[T],
	interp rbd.Interpreter[T],
	stateDim, controlDim int,
	eeIndex int,
	qPos *mat.SymDense,
	qRot float64,
	refPos r3.Vector,
	eulerXyz r3.Vector,
	logger logging.Logger,
) (*TaskSpacePose[T], error) {
	return NewTaskSpacePose(
		name, fk, interp, stateDim, controlDim,
		eeIndex, qPos, qRot, refPos, quatFromEulerXYZ(eulerXyz), logger,
	)
}

// NewTaskSpacePoseFromConfig constructs a term and populates it from the
// named section of cfg.
func NewTaskSpacePoseFromConfig[T scalar.Number[T]](
	fk kinematics.Forward[T],
	interp rbd.Interpreter[T],
	stateDim, controlDim int,
	cfg *Config,
	termName string,
	logger logging.Logger,
) (*TaskSpacePose[T], error) {
	c, err := newTaskSpacePose(termName, fk, interp, stateDim, controlDim, logger)
	if err != nil {
		return nil, err
	}
	if err := c.LoadConfig(cfg, termName); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *TaskSpacePose[T]) setWeightsAndReference(
	eeIndex int,
	qPos *mat.SymDense,
	qRot float64,
	refPos r3.Vector,
	refRot *spatialmath.RotationMatrix,
) error {
	if eeIndex < 0 || eeIndex >= c.fk.NumEndEffectors() {
		return errors.Errorf(
			"end-effector index %d out of range [0,%d)", eeIndex, c.fk.NumEndEffectors(),
		)
	}
	if qPos == nil {
		return errors.New("position weight matrix is required")
	}
	if n := qPos.SymmetricDim(); n != 3 {
		return errors.Errorf("position weight must be 3x3, got %dx%d", n, n)
	}
	if qRot < 0 {
		return errors.Errorf("rotation weight must be non-negative, got %v", qRot)
	}
	c.eeIndex = eeIndex
	c.qPos = copySym(qPos)
	c.qRot = qRot
	c.refPos = refPos
	c.refRot = refRot
	return nil
}

// Name implements Term.
func (c *TaskSpacePose[T]) Name() string { return c.name }

// EndEffector returns the index of the end-effector this term scores.
func (c *TaskSpacePose[T]) EndEffector() int { return c.eeIndex }

// ReferencePosition returns the desired world-frame position.
func (c *TaskSpacePose[T]) ReferencePosition() r3.Vector { return c.refPos }

// ReferenceOrientation returns the desired world-frame orientation.
func (c *TaskSpacePose[T]) ReferenceOrientation() *spatialmath.RotationMatrix { return c.refRot }

// Evaluate implements Term. It reconstructs the structured robot state, runs
// forward kinematics and returns the summed position and orientation cost.
func (c *TaskSpacePose[T]) Evaluate(x, u []T, t T) (T, error) {
	var zero T
	if len(u) != c.controlDim {
		return zero, rbd.DimensionMismatchError{Want: c.controlDim, Got: len(u)}
	}

	state, err := c.interp.Reconstruct(x)
	if err != nil {
		return zero, err
	}

	eePos, err := c.fk.EEPositionInWorld(c.eeIndex, state.Base, state.JointPositions)
	if err != nil {
		return zero, err
	}
	posErr := eePos.Sub(lin.VecFromR3[T](c.refPos))
	posCost := lin.QuadForm(lin.MatFromSym[T](c.qPos), posErr)

	eeRot, err := c.fk.EEOrientationInWorld(c.eeIndex, state.Base, state.JointPositions)
	if err != nil {
		return zero, err
	}
	rotErr := lin.MatFromRotation[T](c.refRot).Transpose().Mul(eeRot)
	rotCost := scalar.C[T](c.qRot).Mul(rotErr.Sub(lin.Identity[T]()).Norm())

	return posCost.Add(rotCost), nil
}

// Clone implements Term. The weight matrix and reference pose are deep
// copied; the kinematics solver and interpreter are stateless and shared.
func (c *TaskSpacePose[T]) Clone() Term[T] {
	clone := *c
	clone.qPos = copySym(c.qPos)
	clone.refRot = copyRotation(c.refRot)
	return &clone
}

func copySym(s *mat.SymDense) *mat.SymDense {
	n := s.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	out.CopySym(s)
	return out
}

func copyRotation(rm *spatialmath.RotationMatrix) *spatialmath.RotationMatrix {
	out, err := spatialmath.NewRotationMatrix([]float64{
		rm.At(0, 0), rm.At(0, 1), rm.At(0, 2),
		rm.At(1, 0), rm.At(1, 1), rm.At(1, 2),
		rm.At(2, 0), rm.At(2, 1), rm.At(2, 2),
	})
	if err != nil {
		// the source was a valid rotation matrix, so its copy is too
		panic(err)
	}
	return out
}

// rotationFromQuat normalizes q and converts it to a rotation matrix. A zero
// quaternion has no orientation and is rejected.
func rotationFromQuat(q quat.Number) (*spatialmath.RotationMatrix, error) {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, errors.New("reference quaternion is not normalizable")
	}
	q = quat.Scale(1/n, q)

	m := lin.RotQuat(
		scalar.Real(q.Real), scalar.Real(q.Imag), scalar.Real(q.Jmag), scalar.Real(q.Kmag),
	).Floats()
	return spatialmath.NewRotationMatrix([]float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// quatFromEulerXYZ composes intrinsic X-Y-Z axis rotations into a quaternion,
// q = qx(roll) * qy(pitch) * qz(yaw).
func quatFromEulerXYZ(e r3.Vector) quat.Number {
	qx := quat.Number{Real: math.Cos(e.X / 2), Imag: math.Sin(e.X / 2)}
	qy := quat.Number{Real: math.Cos(e.Y / 2), Jmag: math.Sin(e.Y / 2)}
	qz := quat.Number{Real: math.Cos(e.Z / 2), Kmag: math.Sin(e.Z / 2)}
	return quat.Mul(qx, quat.Mul(qy, qz))
}
