// Package constraint implements the constraint sets of the locomotion
// problem: kinematic reach, contact load sharing, terrain contact and
// duration bookkeeping. Every set satisfies the nlp.ConstraintSet contract.
package constraint

import (
	"go.viam.com/trajopt/nlp"
)

// LoadFractions is the variable block of per-sample, per-leg contact load
// shares λ ∈ [0, 1]. At every discretized instant the active legs split the
// total contact load; the Convexity set ties each sample's shares to 1.
type LoadFractions struct {
	*nlp.VarBlock
	samples int
	legs    int
}

// NewLoadFractions creates a block initialized to an even split.
func NewLoadFractions(name string, samples, legs int) *LoadFractions {
	l := &LoadFractions{
		VarBlock: nlp.NewVarBlock(name, samples*legs),
		samples:  samples,
		legs:     legs,
	}
	l.SetAllBounds(nlp.BoundsRange(0, 1))
	for i := 0; i < l.Size(); i++ {
		l.Set(i, 1/float64(legs))
	}
	return l
}

// Samples returns the number of discretized instants.
func (l *LoadFractions) Samples() int { return l.samples }

// Legs returns the number of endeffectors sharing load.
func (l *LoadFractions) Legs() int { return l.legs }

// Index maps (sample, leg) to the scalar's position in the block.
func (l *LoadFractions) Index(sample, leg int) int {
	return sample*l.legs + leg
}
