package spline

import (
	"github.com/pkg/errors"

	"go.viam.com/trajopt/nlp"
)

// NodeSpline is a piecewise cubic-Hermite trajectory over a sequence of
// boundary nodes and segment durations. Evaluation and both Jacobians
// resolve the query time identically: the cumulative durations are walked
// to find the owning segment, a time exactly on a boundary belongs to the
// later segment, and times outside [0, total] clamp into the first or last
// segment so that no candidate vector the solver tries can fault.
type NodeSpline struct {
	nodes     *Nodes
	durations Durations
	// segments[i] holds the node indices bounding segment i; start and end
	// may coincide for constant segments.
	segments [][2]int
}

// NewNodeSpline connects consecutive nodes: segment i spans nodes i, i+1.
func NewNodeSpline(nodes *Nodes, durations Durations) (*NodeSpline, error) {
	n := len(durations.SegmentDurations())
	if nodes.Count() != n+1 {
		return nil, errors.Errorf("spline %q: %d nodes cannot bound %d segments", nodes.Name(), nodes.Count(), n)
	}
	segments := make([][2]int, n)
	for i := range segments {
		segments[i] = [2]int{i, i + 1}
	}
	return &NodeSpline{nodes: nodes, durations: durations, segments: segments}, nil
}

// newSplineWithTable builds a spline with an explicit segment-to-node table
// (used by phase splines, where one node may bound many segments).
func newSplineWithTable(nodes *Nodes, durations Durations, table [][2]int) (*NodeSpline, error) {
	if len(table) != len(durations.SegmentDurations()) {
		return nil, errors.Errorf("spline %q: %d segments but %d durations",
			nodes.Name(), len(table), len(durations.SegmentDurations()))
	}
	for _, seg := range table {
		if seg[0] >= nodes.Count() || seg[1] >= nodes.Count() {
			return nil, errors.Errorf("spline %q: segment references node beyond %d", nodes.Name(), nodes.Count())
		}
	}
	return &NodeSpline{nodes: nodes, durations: durations, segments: table}, nil
}

// Nodes returns the backing node block.
func (s *NodeSpline) Nodes() *Nodes { return s.nodes }

// Durations returns the duration source.
func (s *NodeSpline) Durations() Durations { return s.durations }

// Total returns the current total trajectory time.
func (s *NodeSpline) Total() float64 { return s.durations.Total() }

// segmentAt resolves a global time to the owning segment index and the
// clamped local time within it.
func (s *NodeSpline) segmentAt(t float64) (int, float64) {
	durs := s.durations.SegmentDurations()
	if t < 0 {
		return 0, 0
	}
	start := 0.0
	for i, d := range durs {
		if t < start+d {
			return i, t - start
		}
		start += d
	}
	last := len(durs) - 1
	return last, durs[last]
}

// Point evaluates position, velocity and acceleration at global time t.
func (s *NodeSpline) Point(t float64) Point {
	i, tau := s.segmentAt(t)
	a, b := s.segments[i][0], s.segments[i][1]
	p0, v0 := s.nodes.Node(a)
	p1, v1 := s.nodes.Node(b)
	return hermitePoint(tau, s.durations.SegmentDurations()[i], p0, v0, p1, v1)
}

// JacobianWrtNodes returns the Dim × blockSize Jacobian of the given
// derivative at time t with respect to the node scalars. Entries are the
// Hermite basis weights of the two boundary nodes; all other columns are
// zero. When a segment reuses one node at both ends the weights accumulate
// onto that node's columns.
func (s *NodeSpline) JacobianWrtNodes(t float64, d Deriv) *nlp.Jacobian {
	jac := nlp.NewJacobian(Dim, s.nodes.Size())
	i, tau := s.segmentAt(t)
	a, b := s.segments[i][0], s.segments[i][1]
	w := basisWeights(d, tau, s.durations.SegmentDurations()[i])
	for dim := 0; dim < Dim; dim++ {
		jac.Add(dim, Index(a, Pos, dim), w[0])
		jac.Add(dim, Index(a, Vel, dim), w[1])
		jac.Add(dim, Index(b, Pos, dim), w[2])
		jac.Add(dim, Index(b, Vel, dim), w[3])
	}
	return jac
}

// JacobianWrtDurations returns the Dim × durationCount Jacobian of the
// given derivative at time t with respect to every segment duration. Two
// contributions enter: the owning segment's coefficients depend directly on
// its duration, and the local time shifts by -1 for every preceding
// duration, which by the chain rule pulls in the next-higher derivative.
// The zero map is returned when durations are not optimized.
func (s *NodeSpline) JacobianWrtDurations(t float64, d Deriv) *nlp.Jacobian {
	durs := s.durations.SegmentDurations()
	jac := nlp.NewJacobian(Dim, len(durs))
	if !s.durations.Optimized() {
		return jac
	}
	i, tau := s.segmentAt(t)
	a, b := s.segments[i][0], s.segments[i][1]
	p0, v0 := s.nodes.Node(a)
	p1, v1 := s.nodes.Node(b)
	T := durs[i]

	direct := durationPartial(d, tau, T, p0, v0, p1, v1)
	jac.Set(0, i, direct.X)
	jac.Set(1, i, direct.Y)
	jac.Set(2, i, direct.Z)

	if i > 0 {
		pt := hermitePoint(tau, T, p0, v0, p1, v1)
		var shift [3]float64
		switch d {
		case Pos:
			shift = [3]float64{-pt.Vel.X, -pt.Vel.Y, -pt.Vel.Z}
		case Vel:
			shift = [3]float64{-pt.Acc.X, -pt.Acc.Y, -pt.Acc.Z}
		default:
			jerk := hermiteJerk(T, p0, v0, p1, v1)
			shift = [3]float64{-jerk.X, -jerk.Y, -jerk.Z}
		}
		for j := 0; j < i; j++ {
			jac.Set(0, j, shift[0])
			jac.Set(1, j, shift[1])
			jac.Set(2, j, shift[2])
		}
	}
	return jac
}
