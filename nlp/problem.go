package nlp

// Problem is the solver-facing facade over one variable container and the
// constraint and cost composites bound to it. The row and column numbering
// it exposes is established at assembly time and never changes during a
// solve.
//
// The solve loop is synchronous: the solver writes a candidate vector with
// SetVariables, then reads values, bounds and Jacobians. All reads between
// two writes observe the same decision vector. Evaluation never fails for
// any candidate the solver may try; infeasible points still produce finite
// values via clamping inside the spline layer.
type Problem struct {
	vars        *VariableContainer
	constraints *Composite
	costs       *Composite
}

// NewProblem binds a container and its composites together.
func NewProblem(vars *VariableContainer, constraints, costs *Composite) *Problem {
	return &Problem{vars: vars, constraints: constraints, costs: costs}
}

// Variables returns the underlying container.
func (p *Problem) Variables() *VariableContainer { return p.vars }

// Constraints returns the constraint composite.
func (p *Problem) Constraints() *Composite { return p.constraints }

// Costs returns the cost composite.
func (p *Problem) Costs() *Composite { return p.costs }

// Dimension returns the decision-vector length.
func (p *Problem) Dimension() int { return p.vars.Dimension() }

// SetVariables writes a candidate decision vector into the blocks.
func (p *Problem) SetVariables(x []float64) error {
	return p.vars.SetVariables(x)
}

// VariableValues returns the current flat decision vector.
func (p *Problem) VariableValues() []float64 { return p.vars.Values() }

// VariableBounds returns the per-scalar variable bounds.
func (p *Problem) VariableBounds() []Bounds { return p.vars.VariableBounds() }

// ConstraintRows returns the number of constraint rows.
func (p *Problem) ConstraintRows() int { return p.constraints.Rows() }

// ConstraintValues evaluates all constraint rows at the current vector.
func (p *Problem) ConstraintValues() []float64 { return p.constraints.Values() }

// ConstraintBounds returns the per-row constraint bounds.
func (p *Problem) ConstraintBounds() []Bounds { return p.constraints.Bounds() }

// ConstraintJacobian assembles the sparse constraint Jacobian.
func (p *Problem) ConstraintJacobian() *Jacobian { return p.constraints.Jacobian() }

// Cost evaluates the scalar cost at the current vector.
func (p *Problem) Cost() float64 {
	if p.costs == nil || len(p.costs.Sets()) == 0 {
		return 0
	}
	return p.costs.Values()[0]
}

// CostGradient returns the dense cost gradient.
func (p *Problem) CostGradient() []float64 {
	g := make([]float64, p.Dimension())
	if p.costs == nil || len(p.costs.Sets()) == 0 {
		return g
	}
	p.costs.Jacobian().Row(0, g)
	return g
}
