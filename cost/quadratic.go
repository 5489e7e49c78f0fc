// Package cost implements the cost terms of the locomotion problem. Costs
// satisfy the same nlp.ConstraintSet contract as constraints, with a single
// row whose bounds are ignored; the cost composite sums them.
package cost

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/trajopt/nlp"
)

// Quadratic is the weighted quadratic form over one variable block:
//
//	cost = w·(xᵀMx + vᵀx)
//
// with the analytic gradient w·(2Mx + v) scattered only into that block's
// columns; all other columns of the problem stay zero.
type Quadratic struct {
	name   string
	block  nlp.VariableBlock
	m      *mat.SymDense
	v      []float64
	weight float64
}

// NewQuadratic builds the cost. M must be n×n and v of length n for a
// block of n scalars; v may be nil for a pure quadratic.
func NewQuadratic(name string, block nlp.VariableBlock, m *mat.SymDense, v []float64, weight float64) (*Quadratic, error) {
	n := block.Size()
	if r := m.SymmetricDim(); r != n {
		return nil, errors.Errorf("cost %q: matrix is %d×%d but block %q has %d scalars", name, r, r, block.Name(), n)
	}
	if v != nil && len(v) != n {
		return nil, errors.Errorf("cost %q: vector has %d entries, expected %d", name, len(v), n)
	}
	if v == nil {
		v = make([]float64, n)
	}
	return &Quadratic{name: name, block: block, m: m, v: v, weight: weight}, nil
}

// Name returns the cost's name.
func (c *Quadratic) Name() string { return c.name }

// Rows returns 1.
func (c *Quadratic) Rows() int { return 1 }

// UpdateValues writes the weighted scalar cost.
func (c *Quadratic) UpdateValues(out []float64) {
	x := mat.NewVecDense(c.block.Size(), c.block.Values())
	out[0] = c.weight * (mat.Inner(x, c.m, x) + floats.Dot(c.v, c.block.Values()))
}

// UpdateBounds is meaningless for a cost; the row stays unconstrained.
func (c *Quadratic) UpdateBounds(out []nlp.Bounds) {
	out[0] = nlp.BoundsNone
}

// FillJacobianBlock writes the gradient row for the cost's own block.
func (c *Quadratic) FillJacobianBlock(blockName string, jac *nlp.Jacobian) {
	if blockName != c.block.Name() {
		return
	}
	n := c.block.Size()
	x := mat.NewVecDense(n, c.block.Values())
	grad := mat.NewVecDense(n, nil)
	grad.MulVec(c.m, x)
	for i := 0; i < n; i++ {
		jac.Set(0, i, c.weight*(2*grad.AtVec(i)+c.v[i]))
	}
}
