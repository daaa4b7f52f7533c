// Command posecost evaluates a task-space pose cost term for one robot state.
// It loads a term-configuration file and an rdk kinematics model, interprets
// the given fixed-base state vector and prints the cost.
package main

import (
	"flag"
	"strconv"
	"strings"

	"go.viam.com/rdk/logging"

	"posecost/costterm"
	"posecost/kinematics"
	"posecost/rbd"
	"posecost/scalar"
)

func main() {
	var (
		modelPath  = flag.String("model", "", "path to an rdk kinematics JSON model")
		configPath = flag.String("config", "", "path to a term-configuration JSON file")
		termName   = flag.String("term", costterm.DefaultTaskSpacePoseName, "configuration section to load")
		stateCSV   = flag.String("state", "", "comma-separated joint positions, optionally followed by joint velocities")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := logging.NewLogger("posecost")
	if *debug {
		logger.SetLevel(logging.DEBUG)
	}

	if *modelPath == "" || *configPath == "" || *stateCSV == "" {
		logger.Fatal("need -model, -config and -state")
	}

	model, err := kinematics.ParseFrameModelFile(*modelPath, "")
	if err != nil {
		logger.Fatal(err)
	}

	cfg, err := costterm.LoadConfigFile(*configPath)
	if err != nil {
		logger.Fatal(err)
	}

	interp := rbd.NewFixedBase[scalar.Real](model.NumJoints())
	term, err := costterm.NewTaskSpacePoseFromConfig[scalar.Real](
		model, interp, interp.StateDim(), 0, cfg, *termName, logger,
	)
	if err != nil {
		logger.Fatal(err)
	}

	state, err := parseState(*stateCSV, model.NumJoints())
	if err != nil {
		logger.Fatal(err)
	}

	cost, err := term.Evaluate(scalar.FromFloats[scalar.Real](state), nil, 0)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Infof("term %q cost: %v", term.Name(), cost.Float())
}

// parseState reads a comma-separated state vector. Passing only the n joint
// positions is allowed; velocities then default to zero.
func parseState(csv string, nJoints int) ([]float64, error) {
	fields := strings.Split(csv, ",")
	values := make([]float64, 0, 2*nJoints)
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == nJoints {
		values = append(values, make([]float64, nJoints)...)
	}
	return values, nil
}
