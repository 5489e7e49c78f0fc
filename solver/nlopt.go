//go:build !windows && !no_cgo

package solver

import (
	"github.com/edaniels/golog"
	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/trajopt/nlp"
)

const nloptMaxEval = 4001

// NloptSLSQP solves problems through the nlopt C library's SLSQP
// implementation. Requires cgo; a stub takes its place otherwise.
type NloptSLSQP struct {
	logger        golog.Logger
	Accuracy      float64
	MaxIterations int
}

// NewNloptSLSQP creates an adapter with default termination settings.
func NewNloptSLSQP(logger golog.Logger) *NloptSLSQP {
	return &NloptSLSQP{logger: logger, Accuracy: defaultAccuracy, MaxIterations: defaultIterations}
}

// Solve runs nlopt and writes the final vector back into p.
func (s *NloptSLSQP) Solve(p *nlp.Problem) (Result, error) {
	n := p.Dimension()
	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(n))
	if err != nil {
		return Result{}, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, b := range p.VariableBounds() {
		lower[i], upper[i] = b.Lower, b.Upper
	}

	iterations := 0
	objective := func(x, gradient []float64) float64 {
		iterations++
		if err := p.SetVariables(x); err != nil {
			return 0
		}
		if len(gradient) > 0 {
			copy(gradient, p.CostGradient())
		}
		return p.Cost()
	}

	// split rows like the pure-Go adapter: equalities as-is, finite sides
	// of inequality rows as c(x) ≤ 0
	type side struct {
		row   int
		shift float64
		sign  float64
	}
	var eqs, ineqs []side
	for r, b := range p.ConstraintBounds() {
		if b.IsEquality() {
			eqs = append(eqs, side{r, b.Lower, 1})
			continue
		}
		if !isInf(b.Upper) {
			ineqs = append(ineqs, side{r, b.Upper, 1}) // g - upper ≤ 0
		}
		if !isInf(b.Lower) {
			ineqs = append(ineqs, side{r, b.Lower, -1}) // lower - g ≤ 0
		}
	}

	mConstraint := func(sides []side) nlopt.Mfunc {
		return func(result, x, gradient []float64) {
			if err := p.SetVariables(x); err != nil {
				return
			}
			vals := p.ConstraintValues()
			var jac *nlp.Jacobian
			if len(gradient) > 0 {
				jac = p.ConstraintJacobian()
			}
			row := make([]float64, n)
			for j, sd := range sides {
				result[j] = sd.sign * (vals[sd.row] - sd.shift)
				if jac != nil {
					jac.Row(sd.row, row)
					for i, v := range row {
						gradient[j*n+i] = sd.sign * v
					}
				}
			}
		}
	}

	err = multierr.Combine(
		opt.SetMinObjective(objective),
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetFtolRel(s.Accuracy),
		opt.SetXtolRel(s.Accuracy),
		opt.SetMaxEval(nloptMaxEval*s.MaxIterations/defaultIterations),
	)
	if err != nil {
		return Result{}, errors.Wrap(err, "nlopt configuration")
	}
	if len(eqs) > 0 {
		err = multierr.Append(err, opt.AddEqualityMConstraint(mConstraint(eqs), tolerances(len(eqs), s.Accuracy)))
	}
	if len(ineqs) > 0 {
		err = multierr.Append(err, opt.AddInequalityMConstraint(mConstraint(ineqs), tolerances(len(ineqs), s.Accuracy)))
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "nlopt constraints")
	}

	x, cost, optErr := opt.Optimize(p.VariableValues())
	if x != nil {
		if err := p.SetVariables(x); err != nil {
			return Result{}, err
		}
	}
	res := Result{Converged: optErr == nil, Cost: cost, Iterations: iterations}
	s.logger.Debugw("nlopt finished",
		"converged", res.Converged,
		"cost", cost,
		"evaluations", iterations,
	)
	return res, nil
}

func tolerances(m int, tol float64) []float64 {
	out := make([]float64, m)
	for i := range out {
		out[i] = tol
	}
	return out
}

func isInf(v float64) bool {
	return v > 1e308 || v < -1e308
}
