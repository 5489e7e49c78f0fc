// Package spline implements the phase-segmented cubic-Hermite trajectory
// parameterization: boundary nodes and segment durations are optimization
// variables, and evaluation is analytically differentiable with respect to
// both.
package spline

import (
	"github.com/golang/geo/r3"

	"go.viam.com/trajopt/nlp"
)

// Dim is the number of spatial dimensions of every spline.
const Dim = 3

// Deriv selects a motion derivative.
type Deriv int

// Motion derivatives in ascending order.
const (
	Pos Deriv = iota
	Vel
	Acc
)

// ScalarsPerNode is the per-node variable count: position and velocity in
// each spatial dimension. Acceleration is not a node variable; it follows
// from the Hermite coefficients.
const ScalarsPerNode = 2 * Dim

// Index maps (node, derivative, dimension) to the scalar's position inside
// a node block. Only Pos and Vel are node variables.
func Index(node int, d Deriv, dim int) int {
	return node*ScalarsPerNode + int(d)*Dim + dim
}

// Point is the state of a spline at one query time.
type Point struct {
	Pos r3.Vector
	Vel r3.Vector
	Acc r3.Vector
}

// Deriv returns the requested derivative of the point.
func (p Point) Deriv(d Deriv) r3.Vector {
	switch d {
	case Pos:
		return p.Pos
	case Vel:
		return p.Vel
	default:
		return p.Acc
	}
}

// Nodes is the variable block holding the boundary nodes of one spline.
// Segments reference nodes through an index table owned by the spline, so a
// single node may bound several segments without aliasing ambiguity.
type Nodes struct {
	*nlp.VarBlock
	count int
}

// NewNodes creates a block of count nodes, all zero and unbounded.
func NewNodes(name string, count int) *Nodes {
	return &Nodes{VarBlock: nlp.NewVarBlock(name, count*ScalarsPerNode), count: count}
}

// Count returns the number of nodes in the block.
func (n *Nodes) Count() int { return n.count }

// Node returns node i's position and velocity.
func (n *Nodes) Node(i int) (pos, vel r3.Vector) {
	pos = r3.Vector{
		X: n.At(Index(i, Pos, 0)),
		Y: n.At(Index(i, Pos, 1)),
		Z: n.At(Index(i, Pos, 2)),
	}
	vel = r3.Vector{
		X: n.At(Index(i, Vel, 0)),
		Y: n.At(Index(i, Vel, 1)),
		Z: n.At(Index(i, Vel, 2)),
	}
	return pos, vel
}

// SetNode overwrites node i's position and velocity.
func (n *Nodes) SetNode(i int, pos, vel r3.Vector) {
	n.Set(Index(i, Pos, 0), pos.X)
	n.Set(Index(i, Pos, 1), pos.Y)
	n.Set(Index(i, Pos, 2), pos.Z)
	n.Set(Index(i, Vel, 0), vel.X)
	n.Set(Index(i, Vel, 1), vel.Y)
	n.Set(Index(i, Vel, 2), vel.Z)
}

// InitializeTowards spreads the node positions linearly from start to goal
// with zero velocities, the standard warm start before a solve.
func (n *Nodes) InitializeTowards(start, goal r3.Vector) {
	for i := 0; i < n.count; i++ {
		s := 0.0
		if n.count > 1 {
			s = float64(i) / float64(n.count-1)
		}
		n.SetNode(i, start.Add(goal.Sub(start).Mul(s)), r3.Vector{})
	}
}

// PinPos fixes node i's position to pos through its variable bounds.
func (n *Nodes) PinPos(i int, pos r3.Vector) {
	n.SetBounds(Index(i, Pos, 0), nlp.BoundsEqual(pos.X))
	n.SetBounds(Index(i, Pos, 1), nlp.BoundsEqual(pos.Y))
	n.SetBounds(Index(i, Pos, 2), nlp.BoundsEqual(pos.Z))
}

// PinVel fixes node i's velocity to vel through its variable bounds.
func (n *Nodes) PinVel(i int, vel r3.Vector) {
	n.SetBounds(Index(i, Vel, 0), nlp.BoundsEqual(vel.X))
	n.SetBounds(Index(i, Vel, 1), nlp.BoundsEqual(vel.Y))
	n.SetBounds(Index(i, Vel, 2), nlp.BoundsEqual(vel.Z))
}
