package constraint

import (
	"go.viam.com/trajopt/nlp"
)

// Convexity enforces that the load fractions of all legs sum to one at
// every discrete sample: g[k] = Σ_legs λ[k,leg] = 1. Together with the
// [0,1] bounds on each λ this keeps the contact force distribution inside
// the convex hull of the active contacts.
type Convexity struct {
	name string
	load *LoadFractions
}

// NewConvexity builds the set over one load block.
func NewConvexity(load *LoadFractions) *Convexity {
	return &Convexity{name: "convexity-" + load.Name(), load: load}
}

// Name returns the set's name.
func (c *Convexity) Name() string { return c.name }

// Rows returns one row per sample.
func (c *Convexity) Rows() int { return c.load.Samples() }

// UpdateValues writes the per-sample load sums.
func (c *Convexity) UpdateValues(out []float64) {
	for k := 0; k < c.load.Samples(); k++ {
		sum := 0.0
		for leg := 0; leg < c.load.Legs(); leg++ {
			sum += c.load.At(c.load.Index(k, leg))
		}
		out[k] = sum
	}
}

// UpdateBounds pins every row to exactly one.
func (c *Convexity) UpdateBounds(out []nlp.Bounds) {
	for k := range out {
		out[k] = nlp.BoundsEqual(1)
	}
}

// FillJacobianBlock writes a one into every λ column of the matching row.
func (c *Convexity) FillJacobianBlock(blockName string, jac *nlp.Jacobian) {
	if blockName != c.load.Name() {
		return
	}
	for k := 0; k < c.load.Samples(); k++ {
		for leg := 0; leg < c.load.Legs(); leg++ {
			jac.Set(k, c.load.Index(k, leg), 1)
		}
	}
}
