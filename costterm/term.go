// Package costterm implements task-space cost terms for optimal-control cost
// functions. Terms are generic over the scalar type: instantiating a term
// with scalar.Real gives plain evaluation, instantiating it with scalar.Dual
// gives the differentiable surface the surrounding optimizer uses for
// gradient extraction. The arithmetic path is identical for both.
package costterm

import (
	"fmt"

	"posecost/scalar"
)

// Term is the contract a cost-function aggregator registers terms under.
// Evaluate is a pure function of (state, control, time); implementations must
// not mutate internal state. Clone produces a fully independent copy so that
// parallel consumers never share mutable data.
type Term[T scalar.Number[T]] interface {
	Name() string
	Evaluate(x, u []T, t T) (T, error)
	Clone() Term[T]
}

// ConfigurationError reports a missing or malformed field while loading a
// term from configuration. It is an authoring error: the caller should halt
// initialization, not retry.
type ConfigurationError struct {
	Term   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("term %q: %s", e.Term, e.Reason)
	}
	return fmt.Sprintf("term %q, field %q: %s", e.Term, e.Field, e.Reason)
}
