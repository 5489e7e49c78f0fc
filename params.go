// Package trajopt formulates trajectory-optimization problems for
// legged-robot locomotion: phase-segmented spline variables for base and
// feet, the constraint and cost sets tying them to dynamics, reach and
// terrain, and sampling of the optimized motion.
package trajopt

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/trajopt/spline"
)

// ConstraintName selects a constraint family for assembly.
type ConstraintName string

// Constraint families the factory knows how to build.
const (
	RangeOfMotion  ConstraintName = "range-of-motion"
	Convexity      ConstraintName = "convexity"
	TerrainContact ConstraintName = "terrain-contact"
	TotalDuration  ConstraintName = "total-duration"
)

// CostName selects a cost family for assembly.
type CostName string

// Cost families the factory knows how to build.
const (
	// BaseMotionCost penalizes base linear node velocities.
	BaseMotionCost CostName = "base-motion"
	// ForcesCost penalizes contact-force magnitudes.
	ForcesCost CostName = "ee-forces"
)

// Parameters configures one optimization problem. The zero value is not
// usable; start from DefaultParameters.
type Parameters struct {
	// TotalTime is the trajectory horizon in seconds.
	TotalTime float64
	// LegPhases is the per-leg contact schedule. Phase durations of each
	// leg must sum to TotalTime.
	LegPhases [][]spline.Phase
	// BaseSegments is the polynomial count of the base splines.
	BaseSegments int
	// OptimizeDurations makes the per-leg segment durations decision
	// variables, held to the horizon by a TotalDuration equality.
	OptimizeDurations bool
	// MinPhaseDuration is the lower bound on any optimized duration.
	MinPhaseDuration float64
	// Dt is the sample spacing of time-discretized constraints.
	Dt float64
	// Constraints lists the families to assemble, in row order.
	Constraints []ConstraintName
	// CostWeights maps enabled cost families to their weights.
	CostWeights map[CostName]float64
}

// DefaultParameters returns a trot-like schedule for the given number of
// legs over the horizon: stance, swing, stance, with diagonal pairs offset
// by alternating swing placement.
func DefaultParameters(totalTime float64, legs int) Parameters {
	phases := make([][]spline.Phase, legs)
	third := totalTime / 3
	for leg := range phases {
		swing := spline.Phase{InContact: false, Duration: third, Segments: 2}
		stance := spline.Phase{InContact: true, Duration: third, Segments: 1}
		if leg%2 == 0 {
			phases[leg] = []spline.Phase{stance, swing, stance}
		} else {
			phases[leg] = []spline.Phase{
				{InContact: true, Duration: 2 * third, Segments: 1},
				{InContact: false, Duration: third / 2, Segments: 2},
				{InContact: true, Duration: third / 2, Segments: 1},
			}
		}
	}
	return Parameters{
		TotalTime:        totalTime,
		LegPhases:        phases,
		BaseSegments:     4,
		MinPhaseDuration: 0.1,
		Dt:               totalTime / 8,
		Constraints:      []ConstraintName{RangeOfMotion, Convexity, TerrainContact},
		CostWeights:      map[CostName]float64{BaseMotionCost: 1.0},
	}
}

// Validate fails fast on malformed parameters, before any solve.
func (p Parameters) Validate() error {
	var err error
	if p.TotalTime <= 0 {
		err = multierr.Append(err, errors.Errorf("total time %f must be positive", p.TotalTime))
	}
	if p.BaseSegments < 1 {
		err = multierr.Append(err, errors.Errorf("base spline needs at least one segment, got %d", p.BaseSegments))
	}
	if p.Dt <= 0 {
		err = multierr.Append(err, errors.Errorf("discretization step %f must be positive", p.Dt))
	}
	if p.OptimizeDurations && p.MinPhaseDuration <= 0 {
		err = multierr.Append(err, errors.Errorf("minimum phase duration %f must be positive", p.MinPhaseDuration))
	}
	if len(p.LegPhases) == 0 {
		err = multierr.Append(err, errors.New("no leg phase schedules"))
	}
	for leg, phases := range p.LegPhases {
		sum := 0.0
		for i, ph := range phases {
			if ph.Duration <= 0 {
				err = multierr.Append(err, errors.Errorf("leg %d phase %d duration %f must be positive", leg, i, ph.Duration))
			}
			if ph.Segments < 1 {
				err = multierr.Append(err, errors.Errorf("leg %d phase %d needs at least one segment", leg, i))
			}
			sum += ph.Duration
		}
		if len(phases) == 0 {
			err = multierr.Append(err, errors.Errorf("leg %d has no phases", leg))
			continue
		}
		if math.Abs(sum-p.TotalTime) > 1e-6 {
			err = multierr.Append(err, errors.Errorf("leg %d phase durations sum to %f, want %f", leg, sum, p.TotalTime))
		}
	}
	for _, name := range p.Constraints {
		switch name {
		case RangeOfMotion, Convexity, TerrainContact, TotalDuration:
		default:
			err = multierr.Append(err, errors.Errorf("unknown constraint %q", name))
		}
	}
	for name := range p.CostWeights {
		switch name {
		case BaseMotionCost, ForcesCost:
		default:
			err = multierr.Append(err, errors.Errorf("unknown cost %q", name))
		}
	}
	return err
}
