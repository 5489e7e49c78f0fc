// Package solver adapts an assembled nlp.Problem to concrete NLP solvers.
// The adapters translate the flat values/bounds/Jacobian contract into each
// solver's callback shape, run to convergence, and write the best decision
// vector back into the variable container.
package solver

import (
	"math"

	"github.com/curioloop/optimizer/slsqp"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/trajopt/nlp"
)

// Result reports the outcome of one solve. The best decision vector found
// is always written back into the problem, converged or not.
type Result struct {
	Converged  bool
	Cost       float64
	Iterations int
}

// Solver runs an assembled problem to convergence.
type Solver interface {
	Solve(p *nlp.Problem) (Result, error)
}

const (
	defaultAccuracy   = 1e-6
	defaultIterations = 200
)

// SLSQP solves problems with the pure-Go sequential quadratic-programming
// solver. Constraint rows are split by their bounds: equality rows become
// equality constraints, finite one- or two-sided rows become one or two
// inequality constraints.
type SLSQP struct {
	logger        golog.Logger
	Accuracy      float64
	MaxIterations int
}

// NewSLSQP creates an adapter with default termination settings.
func NewSLSQP(logger golog.Logger) *SLSQP {
	return &SLSQP{logger: logger, Accuracy: defaultAccuracy, MaxIterations: defaultIterations}
}

// rowFunc builds one solver callback for constraint row r with the given
// offset and sign: f(x) = sign·(g_r(x) - shift).
func rowFunc(p *nlp.Problem, r int, shift, sign float64) slsqp.Evaluation {
	return func(x, g []float64) float64 {
		if err := p.SetVariables(x); err != nil {
			panic(err) // dimension fixed at assembly; cannot happen mid-solve
		}
		if g != nil {
			p.ConstraintJacobian().Row(r, g[:p.Dimension()])
			if sign < 0 {
				for i := range g[:p.Dimension()] {
					g[i] = -g[i]
				}
			}
		}
		return sign * (p.ConstraintValues()[r] - shift)
	}
}

// Solve runs the solver and writes the final vector back into p.
func (s *SLSQP) Solve(p *nlp.Problem) (Result, error) {
	n := p.Dimension()

	objective := func(x, g []float64) float64 {
		if err := p.SetVariables(x); err != nil {
			panic(err)
		}
		if g != nil {
			copy(g[:n], p.CostGradient())
		}
		return p.Cost()
	}

	var eq, neq []slsqp.Evaluation
	for r, b := range p.ConstraintBounds() {
		switch {
		case b.IsEquality():
			eq = append(eq, rowFunc(p, r, b.Lower, 1))
		default:
			if !math.IsInf(b.Lower, -1) {
				neq = append(neq, rowFunc(p, r, b.Lower, 1))
			}
			if !math.IsInf(b.Upper, 1) {
				neq = append(neq, rowFunc(p, r, b.Upper, -1))
			}
		}
	}

	bounds := make([]slsqp.Bound, n)
	for i, b := range p.VariableBounds() {
		bounds[i] = slsqp.Bound{Lower: b.Lower, Upper: b.Upper}
	}

	prob := slsqp.Problem{
		N: n,
		Stop: slsqp.Termination{
			Accuracy:      s.Accuracy,
			MaxIterations: s.MaxIterations,
		},
		Object:  objective,
		EqCons:  eq,
		NeqCons: neq,
		Bounds:  bounds,
	}
	opt, err := prob.New()
	if err != nil {
		return Result{}, errors.Wrap(err, "slsqp setup")
	}

	res := opt.Fit(p.VariableValues(), opt.Init())
	if err := p.SetVariables(res.X); err != nil {
		return Result{}, err
	}
	out := Result{Converged: res.OK, Cost: res.F, Iterations: res.NumIter}
	s.logger.Debugw("slsqp finished",
		"converged", res.OK,
		"cost", res.F,
		"iterations", res.NumIter,
		"status", res.Status,
	)
	return out, nil
}
