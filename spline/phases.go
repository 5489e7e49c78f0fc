package spline

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Phase is a contiguous run of segments sharing one contact state.
type Phase struct {
	// InContact is true while the endeffector carries load.
	InContact bool
	// Duration of the whole phase.
	Duration float64
	// Segments the phase is split into; must be at least 1. Constant phases
	// collapse all their segments onto a single node regardless.
	Segments int
}

// Role selects which contact state a phase spline holds constant.
type Role int

const (
	// Motion splines hold the foot still while in contact.
	Motion Role = iota
	// Force splines pin the contact force to zero while in the air.
	Force
)

// PhaseSpline is the contact-phase-aware spline: which nodes are free and
// which are held constant follows from the phase sequence. During a
// constant phase every segment reuses one node, so the node Jacobian at any
// time inside that phase is nonzero only for that node.
type PhaseSpline struct {
	*NodeSpline
	phases []Phase
	role   Role
	// segPhase maps each segment to its owning phase, so contact queries
	// track the current (possibly optimized) durations.
	segPhase []int
	// constNodes lists the nodes held constant by the phase sequence.
	constNodes []int
}

// validatePhases fails fast on malformed phase sequences, before any solve.
func validatePhases(phases []Phase) error {
	if len(phases) == 0 {
		return errors.New("phase sequence is empty")
	}
	for i, ph := range phases {
		if ph.Duration <= 0 {
			return errors.Errorf("phase %d duration %f must be positive", i, ph.Duration)
		}
		if ph.Segments < 1 {
			return errors.Errorf("phase %d must have at least one segment", i)
		}
	}
	return nil
}

// constant reports whether a phase holds its value fixed under the role.
func (r Role) constant(ph Phase) bool {
	if r == Motion {
		return ph.InContact
	}
	return !ph.InContact
}

// PhaseSegmentDurations flattens a phase sequence into per-segment
// durations, splitting each phase evenly over its segments.
func PhaseSegmentDurations(phases []Phase) []float64 {
	var durs []float64
	for _, ph := range phases {
		for s := 0; s < ph.Segments; s++ {
			durs = append(durs, ph.Duration/float64(ph.Segments))
		}
	}
	return durs
}

// NewPhaseSpline builds the node block and segment table for a phase
// sequence. Constant phases introduce no new nodes; their segments all
// reference the node entering the phase, whose velocity (and for force
// splines, value) is pinned to zero through bounds.
func NewPhaseSpline(name string, phases []Phase, role Role, durations Durations) (*PhaseSpline, error) {
	if err := validatePhases(phases); err != nil {
		return nil, errors.Wrapf(err, "phase spline %q", name)
	}

	// first pass: count nodes. One initial node plus one per free segment.
	nodeCount := 1
	for _, ph := range phases {
		if !role.constant(ph) {
			nodeCount += ph.Segments
		}
	}
	nodes := NewNodes(name, nodeCount)

	var table [][2]int
	var segPhase []int
	var constNodes []int
	cur := 0
	pinned := map[int]bool{}
	for pi, ph := range phases {
		if role.constant(ph) {
			for s := 0; s < ph.Segments; s++ {
				table = append(table, [2]int{cur, cur})
				segPhase = append(segPhase, pi)
			}
			if !pinned[cur] {
				nodes.PinVel(cur, r3.Vector{})
				if role == Force {
					nodes.PinPos(cur, r3.Vector{})
				}
				pinned[cur] = true
				constNodes = append(constNodes, cur)
			}
			continue
		}
		for s := 0; s < ph.Segments; s++ {
			table = append(table, [2]int{cur, cur + 1})
			segPhase = append(segPhase, pi)
			cur++
		}
	}

	base, err := newSplineWithTable(nodes, durations, table)
	if err != nil {
		return nil, err
	}
	return &PhaseSpline{
		NodeSpline: base,
		phases:     phases,
		role:       role,
		segPhase:   segPhase,
		constNodes: constNodes,
	}, nil
}

// ConstantNodes returns the indices of nodes the phase sequence holds
// constant (stance footholds for motion splines, zero forces for force
// splines).
func (p *PhaseSpline) ConstantNodes() []int { return p.constNodes }

// Phases returns the phase sequence.
func (p *PhaseSpline) Phases() []Phase { return p.phases }

// Role returns whether this spline holds motion or force.
func (p *PhaseSpline) Role() Role { return p.role }

// phaseAt resolves a global time to its phase through the segment walk, so
// the answer reflects the current duration values.
func (p *PhaseSpline) phaseAt(t float64) Phase {
	i, _ := p.segmentAt(t)
	return p.phases[p.segPhase[i]]
}

// IsConstantPhase reports whether t falls in a phase this spline holds
// constant. For motion splines that is exactly the in-contact state
// consumers use as the contact flag.
func (p *PhaseSpline) IsConstantPhase(t float64) bool {
	return p.role.constant(p.phaseAt(t))
}

// InContactAt reports the contact state of the owning endeffector at t.
func (p *PhaseSpline) InContactAt(t float64) bool {
	return p.phaseAt(t).InContact
}
