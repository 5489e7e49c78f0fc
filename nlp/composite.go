package nlp

// ConstraintSet is the uniform contract every constraint and cost term
// implements: a named range of rows over the decision vector with values,
// bounds and a sparse Jacobian. A cost is a ConstraintSet with a single row
// whose bounds are ignored.
type ConstraintSet interface {
	Name() string
	Rows() int
	// UpdateValues writes the current row values into out, which has
	// length Rows.
	UpdateValues(out []float64)
	// UpdateBounds writes the per-row bounds into out.
	UpdateBounds(out []Bounds)
	// FillJacobianBlock writes the partials of the rows with respect to the
	// named variable block into jac (Rows × block size). Sets leave jac
	// untouched for blocks they do not depend on.
	FillJacobianBlock(blockName string, jac *Jacobian)
}

// Composite aggregates an ordered list of constraint or cost sets into the
// flat rows the solver sees. Row ranges per set are contiguous and stable
// for the life of the composite. A cost composite collapses all sets into a
// single scalar row by summation.
type Composite struct {
	name string
	vars *VariableContainer
	sets []ConstraintSet
	cost bool
	rows int
}

// NewComposite creates a constraint composite over the given variables.
func NewComposite(name string, vars *VariableContainer) *Composite {
	return &Composite{name: name, vars: vars}
}

// NewCostComposite creates a composite that sums its sets into one scalar.
func NewCostComposite(name string, vars *VariableContainer) *Composite {
	return &Composite{name: name, vars: vars, cost: true}
}

// Name returns the composite's name.
func (c *Composite) Name() string { return c.name }

// Add appends a set; its rows follow all previously added rows.
func (c *Composite) Add(set ConstraintSet) {
	c.sets = append(c.sets, set)
	c.rows += set.Rows()
}

// Sets returns the aggregated sets in order.
func (c *Composite) Sets() []ConstraintSet { return c.sets }

// Rows returns the total row count the solver sees.
func (c *Composite) Rows() int {
	if c.cost {
		return 1
	}
	return c.rows
}

// Values evaluates all sets against the current decision vector.
func (c *Composite) Values() []float64 {
	if c.cost {
		sum := 0.0
		for _, s := range c.sets {
			v := make([]float64, s.Rows())
			s.UpdateValues(v)
			for _, e := range v {
				sum += e
			}
		}
		return []float64{sum}
	}
	out := make([]float64, c.rows)
	off := 0
	for _, s := range c.sets {
		s.UpdateValues(out[off : off+s.Rows()])
		off += s.Rows()
	}
	return out
}

// Bounds returns the per-row bounds. Meaningless for cost composites.
func (c *Composite) Bounds() []Bounds {
	out := make([]Bounds, c.rows)
	off := 0
	for _, s := range c.sets {
		s.UpdateBounds(out[off : off+s.Rows()])
		off += s.Rows()
	}
	return out
}

// Jacobian assembles the full sparse matrix, Rows × decision dimension.
// For a cost composite this is the 1×n gradient row.
func (c *Composite) Jacobian() *Jacobian {
	full := NewJacobian(c.Rows(), c.vars.Dimension())
	rowOff := 0
	for _, s := range c.sets {
		for _, b := range c.vars.Blocks() {
			colOff, _ := c.vars.Offset(b.Name())
			jb := NewJacobian(s.Rows(), b.Size())
			s.FillJacobianBlock(b.Name(), jb)
			if jb.NNZ() == 0 {
				continue
			}
			if c.cost {
				// every set's single row folds into row 0
				full.AddBlock(0, colOff, jb, 1)
			} else {
				full.SetBlock(rowOff, colOff, jb)
			}
		}
		rowOff += s.Rows()
	}
	return full
}
