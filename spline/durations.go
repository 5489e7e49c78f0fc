package spline

import (
	"github.com/pkg/errors"

	"go.viam.com/trajopt/nlp"
)

// Durations supplies the segment durations of one spline. Implementations
// are either fixed constants or the PhaseDurations variable block.
type Durations interface {
	// Name identifies the backing variable block; empty for fixed durations.
	Name() string
	// SegmentDurations returns the current per-segment durations in order.
	SegmentDurations() []float64
	// Total returns the sum of all segment durations.
	Total() float64
	// Optimized reports whether the durations are decision variables. When
	// false, every Jacobian with respect to durations is the zero map.
	Optimized() bool
}

// FixedDurations supplies constant segment durations.
type FixedDurations []float64

// Name returns the empty string; fixed durations back no variable block.
func (f FixedDurations) Name() string { return "" }

// SegmentDurations returns the durations themselves.
func (f FixedDurations) SegmentDurations() []float64 { return f }

// Total returns the trajectory time covered.
func (f FixedDurations) Total() float64 {
	sum := 0.0
	for _, d := range f {
		sum += d
	}
	return sum
}

// Optimized returns false.
func (f FixedDurations) Optimized() bool { return false }

// UniformDurations splits total evenly over n segments.
func UniformDurations(n int, total float64) FixedDurations {
	f := make(FixedDurations, n)
	for i := range f {
		f[i] = total / float64(n)
	}
	return f
}

// PhaseDurations is the variable block of per-segment durations for one
// endeffector. The invariant Σ durations = total trajectory time is not
// enforced here; when the durations are optimized an explicit equality
// constraint holds it, so the block stays a plain flat set of scalars the
// solver can move freely.
type PhaseDurations struct {
	*nlp.VarBlock
	optimized bool
}

// NewPhaseDurations creates a duration block. Every duration must exceed
// zero; when optimized, each is bounded below by minDuration.
func NewPhaseDurations(name string, durations []float64, optimized bool, minDuration float64) (*PhaseDurations, error) {
	if len(durations) == 0 {
		return nil, errors.Errorf("duration block %q has no segments", name)
	}
	if minDuration <= 0 {
		return nil, errors.Errorf("duration block %q: minimum duration %f must be positive", name, minDuration)
	}
	p := &PhaseDurations{VarBlock: nlp.NewVarBlock(name, len(durations)), optimized: optimized}
	total := 0.0
	for _, d := range durations {
		total += d
	}
	for i, d := range durations {
		if d <= 0 {
			return nil, errors.Errorf("duration block %q: segment %d duration %f must be positive", name, i, d)
		}
		p.Set(i, d)
		if optimized {
			p.SetBounds(i, nlp.BoundsRange(minDuration, total))
		} else {
			p.SetBounds(i, nlp.BoundsEqual(d))
		}
	}
	return p, nil
}

// SegmentDurations returns the current durations.
func (p *PhaseDurations) SegmentDurations() []float64 { return p.Values() }

// Total returns the current sum of durations.
func (p *PhaseDurations) Total() float64 {
	sum := 0.0
	for _, d := range p.Values() {
		sum += d
	}
	return sum
}

// Optimized reports whether the solver owns these durations.
func (p *PhaseDurations) Optimized() bool { return p.optimized }
