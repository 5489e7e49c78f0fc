package nlp

// PerInstant is the sub-contract a time-discretized constraint evaluates at
// every sample of its grid. Implementations write sample k's contribution
// into the rows TimeDiscretization.Row(k, ·) of the full-size outputs.
type PerInstant interface {
	// ValuesAtInstance writes the constraint value at time t into out.
	ValuesAtInstance(t float64, k int, out []float64)
	// BoundsAtInstance writes the bounds at time t into out.
	BoundsAtInstance(t float64, k int, out []Bounds)
	// JacobianAtInstance writes the partials at time t with respect to the
	// named block into jac (full Rows × block size).
	JacobianAtInstance(t float64, k int, blockName string, jac *Jacobian)
}

// TimeDiscretization fixes a sample grid over [0, total] and scatters each
// sample's contribution into a constraint's row range. Rows are ordered by
// sample index, then spatial dimension; the grid always contains t=0 and
// t=total.
type TimeDiscretization struct {
	times []float64
	dims  int
}

// NewTimeDiscretization builds a grid with spacing dt over [0, total].
func NewTimeDiscretization(total, dt float64, dims int) *TimeDiscretization {
	d := &TimeDiscretization{dims: dims}
	for t := 0.0; t < total-1e-9; t += dt {
		d.times = append(d.times, t)
	}
	d.times = append(d.times, total)
	return d
}

// Times returns the sample grid.
func (d *TimeDiscretization) Times() []float64 { return d.times }

// Samples returns the number of grid points.
func (d *TimeDiscretization) Samples() int { return len(d.times) }

// Dims returns the rows contributed per sample.
func (d *TimeDiscretization) Dims() int { return d.dims }

// Rows returns the total row count of the discretized constraint.
func (d *TimeDiscretization) Rows() int { return len(d.times) * d.dims }

// Row maps (sample, dimension) to a row index. The mapping is fixed at
// construction; solvers rely on it never changing during a solve.
func (d *TimeDiscretization) Row(k, dim int) int { return k*d.dims + dim }

// UpdateValues evaluates p at every sample into out.
func (d *TimeDiscretization) UpdateValues(p PerInstant, out []float64) {
	for k, t := range d.times {
		p.ValuesAtInstance(t, k, out)
	}
}

// UpdateBounds evaluates p's bounds at every sample into out.
func (d *TimeDiscretization) UpdateBounds(p PerInstant, out []Bounds) {
	for k, t := range d.times {
		p.BoundsAtInstance(t, k, out)
	}
}

// FillJacobianBlock evaluates p's partials at every sample into jac.
func (d *TimeDiscretization) FillJacobianBlock(p PerInstant, blockName string, jac *Jacobian) {
	for k, t := range d.times {
		p.JacobianAtInstance(t, k, blockName, jac)
	}
}
