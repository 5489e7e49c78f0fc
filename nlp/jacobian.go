package nlp

import (
	"gonum.org/v1/gonum/mat"
)

// Jacobian is a sparse rows×cols matrix of partial derivatives, stored as a
// triplet map of nonzero entries. It implements mat.Matrix so consumers can
// hand it to gonum routines directly.
//
// Constraint terms fill one Jacobian per variable block they depend on; the
// composite scatters those into the full matrix at the block's column
// offset. Columns belonging to blocks a term never touches stay empty.
type Jacobian struct {
	rows, cols int
	nz         map[int]float64
}

// NewJacobian creates an all-zero rows×cols Jacobian.
func NewJacobian(rows, cols int) *Jacobian {
	return &Jacobian{rows: rows, cols: cols, nz: map[int]float64{}}
}

// Dims returns the matrix dimensions.
func (j *Jacobian) Dims() (r, c int) { return j.rows, j.cols }

// At returns the entry at (r, c).
func (j *Jacobian) At(r, c int) float64 {
	if r < 0 || r >= j.rows || c < 0 || c >= j.cols {
		panic("nlp: jacobian index out of range")
	}
	return j.nz[r*j.cols+c]
}

// T returns the transpose, per mat.Matrix.
func (j *Jacobian) T() mat.Matrix { return mat.Transpose{Matrix: j} }

// Set overwrites the entry at (r, c). Zeros are not stored.
func (j *Jacobian) Set(r, c int, v float64) {
	if r < 0 || r >= j.rows || c < 0 || c >= j.cols {
		panic("nlp: jacobian index out of range")
	}
	k := r*j.cols + c
	if v == 0 {
		delete(j.nz, k)
		return
	}
	j.nz[k] = v
}

// Add accumulates v into the entry at (r, c).
func (j *Jacobian) Add(r, c int, v float64) {
	j.Set(r, c, j.At(r, c)+v)
}

// NNZ returns the number of stored nonzero entries.
func (j *Jacobian) NNZ() int { return len(j.nz) }

// Each calls fn for every nonzero entry.
func (j *Jacobian) Each(fn func(r, c int, v float64)) {
	for k, v := range j.nz {
		fn(k/j.cols, k%j.cols, v)
	}
}

// SetBlock copies src into the receiver with its top-left corner at
// (rowOff, colOff).
func (j *Jacobian) SetBlock(rowOff, colOff int, src *Jacobian) {
	src.Each(func(r, c int, v float64) {
		j.Set(rowOff+r, colOff+c, v)
	})
}

// AddBlock accumulates s*src into the receiver at (rowOff, colOff).
func (j *Jacobian) AddBlock(rowOff, colOff int, src *Jacobian, s float64) {
	src.Each(func(r, c int, v float64) {
		j.Add(rowOff+r, colOff+c, s*v)
	})
}

// Row copies row r into out, which must have length cols.
func (j *Jacobian) Row(r int, out []float64) {
	for c := range out {
		out[c] = 0
	}
	for k, v := range j.nz {
		if k/j.cols == r {
			out[k%j.cols] = v
		}
	}
}

// Dense expands the Jacobian into a gonum dense matrix.
func (j *Jacobian) Dense() *mat.Dense {
	d := mat.NewDense(j.rows, j.cols, nil)
	j.Each(func(r, c int, v float64) {
		d.Set(r, c, v)
	})
	return d
}

// MulMatrix returns m*j as a new Jacobian, where m is a small dense matrix
// with as many columns as j has rows. Used to rotate spline Jacobians into
// other frames.
func MulMatrix(m mat.Matrix, j *Jacobian) *Jacobian {
	mr, mc := m.Dims()
	jr, jc := j.Dims()
	if mc != jr {
		panic("nlp: dimension mismatch in MulMatrix")
	}
	out := NewJacobian(mr, jc)
	j.Each(func(r, c int, v float64) {
		for i := 0; i < mr; i++ {
			if e := m.At(i, r); e != 0 {
				out.Add(i, c, e*v)
			}
		}
	})
	return out
}
