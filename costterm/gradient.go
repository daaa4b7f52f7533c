package costterm

import (
	"posecost/scalar"
)

// StateGradient evaluates a differentiable term and its exact gradient with
// respect to the state, one forward-mode pass per state entry. This is the
// consumer side of the Term[scalar.Dual] instantiation; an optimizer would do
// the same per sample.
func StateGradient(term Term[scalar.Dual], x, u []float64, t float64) (float64, []float64, error) {
	xd := scalar.FromFloats[scalar.Dual](x)
	ud := scalar.FromFloats[scalar.Dual](u)
	td := scalar.C[scalar.Dual](t)

	if len(x) == 0 {
		out, err := term.Evaluate(xd, ud, td)
		if err != nil {
			return 0, nil, err
		}
		return out.Float(), nil, nil
	}

	var value float64
	grad := make([]float64, len(x))
	for i := range x {
		xd[i] = scalar.Var(x[i])
		out, err := term.Evaluate(xd, ud, td)
		if err != nil {
			return 0, nil, err
		}
		xd[i] = scalar.C[scalar.Dual](x[i])
		value = out.Float()
		grad[i] = out.Deriv()
	}
	return value, grad, nil
}
