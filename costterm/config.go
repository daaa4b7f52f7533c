package costterm

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Config is a parsed term-configuration file: a JSON object with one section
// per term name, e.g.
//
//	{
//	  "eePose": {
//	    "eeId": 0,
//	    "Q_rot": 1.0,
//	    "Q_pos": [[1,0,0],[0,1,0],[0,0,1]],
//	    "x_des": [1, 0, 0],
//	    "quat_des": [1, 0, 0, 0]
//	  }
//	}
//
// The orientation reference is quat_des (w,x,y,z) or eulerXyz_des (radians,
// intrinsic X-Y-Z); when both are present the quaternion wins.
type Config struct {
	sections map[string]termSection
}

// termSection mirrors the original configuration keys. Pointer fields make
// presence checkable, which is what the ordered orientation fallback needs.
type termSection struct {
	EEIndex     *int           `json:"eeId"`
	QRot        *float64       `json:"Q_rot"`
	QPos        *[3][3]float64 `json:"Q_pos"`
	XDes        *[3]float64    `json:"x_des"`
	QuatDes     *[4]float64    `json:"quat_des"`
	EulerXyzDes *[3]float64    `json:"eulerXyz_des"`
}

// ParseConfig parses raw JSON term configuration.
func ParseConfig(data []byte) (*Config, error) {
	sections := map[string]termSection{}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, errors.Wrap(err, "failed to parse term configuration")
	}
	return &Config{sections: sections}, nil
}

// LoadConfigFile reads and parses a term-configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read term configuration")
	}
	return ParseConfig(data)
}

// TermNames lists the section names present in the configuration.
func (cfg *Config) TermNames() []string {
	names := make([]string, 0, len(cfg.sections))
	for name := range cfg.sections {
		names = append(names, name)
	}
	return names
}

// LoadConfig populates the term from the named configuration section. The
// load is transactional: on any error the term keeps its previous weights and
// reference pose untouched.
func (c *TaskSpacePose[T]) LoadConfig(cfg *Config, termName string) error {
	sec, ok := cfg.sections[termName]
	if !ok {
		return &ConfigurationError{Term: termName, Reason: "no configuration section with this name"}
	}

	if sec.EEIndex == nil {
		return &ConfigurationError{Term: termName, Field: "eeId", Reason: "missing"}
	}
	if sec.QRot == nil {
		return &ConfigurationError{Term: termName, Field: "Q_rot", Reason: "missing"}
	}
	if sec.QPos == nil {
		return &ConfigurationError{Term: termName, Field: "Q_pos", Reason: "missing"}
	}
	if sec.XDes == nil {
		return &ConfigurationError{Term: termName, Field: "x_des", Reason: "missing"}
	}

	refRot, err := resolveOrientation(termName, sec)
	if err != nil {
		return err
	}

	refPos := r3.Vector{X: sec.XDes[0], Y: sec.XDes[1], Z: sec.XDes[2]}
	if err := c.setWeightsAndReference(*sec.EEIndex, symFromArray(*sec.QPos), *sec.QRot, refPos, refRot); err != nil {
		return &ConfigurationError{Term: termName, Reason: err.Error()}
	}

	if c.logger != nil {
		c.logger.Debugf(
			"loaded term %q: eeId=%d Q_rot=%v x_des=%v", termName, c.eeIndex, c.qRot, c.refPos,
		)
	}
	return nil
}

// resolveOrientation applies the ordered orientation fallback: a quaternion
// reference first, Euler angles second, and a terminal configuration error
// when neither yields a rotation.
func resolveOrientation(termName string, sec termSection) (*spatialmath.RotationMatrix, error) {
	if sec.QuatDes != nil {
		q := quat.Number{
			Real: sec.QuatDes[0],
			Imag: sec.QuatDes[1],
			Jmag: sec.QuatDes[2],
			Kmag: sec.QuatDes[3],
		}
		if rm, qerr := rotationFromQuat(q); qerr == nil {
			return rm, nil
		}
		// malformed quaternion: fall through to the Euler encoding
	}
	if sec.EulerXyzDes != nil {
		e := r3.Vector{X: sec.EulerXyzDes[0], Y: sec.EulerXyzDes[1], Z: sec.EulerXyzDes[2]}
		return rotationFromQuat(quatFromEulerXYZ(e))
	}
	return nil, &ConfigurationError{
		Term:   termName,
		Field:  "quat_des/eulerXyz_des",
		Reason: "no desired end-effector orientation found",
	}
}

func symFromArray(a [3][3]float64) *mat.SymDense {
	// the quadratic form only sees the symmetric part of the weight matrix
	data := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data[i*3+j] = (a[i][j] + a[j][i]) / 2
		}
	}
	return mat.NewSymDense(3, data)
}
