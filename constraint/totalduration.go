package constraint

import (
	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/spline"
)

// TotalDuration pins the sum of one endeffector's segment durations to the
// trajectory horizon. Added only when durations are optimized; otherwise
// the invariant holds by construction.
type TotalDuration struct {
	name      string
	durations *spline.PhaseDurations
	total     float64
}

// NewTotalDuration builds the single-row equality Σ durations = total.
func NewTotalDuration(durations *spline.PhaseDurations, total float64) *TotalDuration {
	return &TotalDuration{
		name:      "total-duration-" + durations.Name(),
		durations: durations,
		total:     total,
	}
}

// Name returns the set's name.
func (c *TotalDuration) Name() string { return c.name }

// Rows returns 1.
func (c *TotalDuration) Rows() int { return 1 }

// UpdateValues writes the current duration sum.
func (c *TotalDuration) UpdateValues(out []float64) {
	out[0] = c.durations.Total()
}

// UpdateBounds pins the sum to the horizon.
func (c *TotalDuration) UpdateBounds(out []nlp.Bounds) {
	out[0] = nlp.BoundsEqual(c.total)
}

// FillJacobianBlock writes a row of ones over the duration block.
func (c *TotalDuration) FillJacobianBlock(blockName string, jac *nlp.Jacobian) {
	if blockName != c.durations.Name() {
		return
	}
	for i := 0; i < c.durations.Size(); i++ {
		jac.Set(0, i, 1)
	}
}
