// Package terrain supplies ground geometry to the optimizer as pure
// functions of horizontal position.
package terrain

import (
	"math"

	"github.com/golang/geo/r3"
)

// Terrain is the height-field boundary the constraint layer consumes.
type Terrain interface {
	// Height returns the ground elevation at (x, y).
	Height(x, y float64) float64
	// Normal returns the unit surface normal at (x, y).
	Normal(x, y float64) r3.Vector
	// FrictionCoeff returns the Coulomb friction coefficient.
	FrictionCoeff() float64
}

// HeightDerivatives recovers the horizontal height gradient from the
// surface normal: for n ∝ (-∂h/∂x, -∂h/∂y, 1), the slopes follow directly.
func HeightDerivatives(t Terrain, x, y float64) (dx, dy float64) {
	n := t.Normal(x, y)
	if n.Z == 0 {
		return 0, 0
	}
	return -n.X / n.Z, -n.Y / n.Z
}

// FlatGround is a horizontal plane with an adjustable height.
type FlatGround struct {
	height   float64
	friction float64
}

// NewFlatGround creates flat ground at z=0.
func NewFlatGround(friction float64) *FlatGround {
	return &FlatGround{friction: friction}
}

// SetGroundHeight moves the plane, e.g. to the average initial foothold
// height before a solve.
func (g *FlatGround) SetGroundHeight(h float64) { g.height = h }

// Height returns the plane height everywhere.
func (g *FlatGround) Height(_, _ float64) float64 { return g.height }

// Normal returns straight up.
func (g *FlatGround) Normal(_, _ float64) r3.Vector { return r3.Vector{Z: 1} }

// FrictionCoeff returns the friction coefficient.
func (g *FlatGround) FrictionCoeff() float64 { return g.friction }

// Slope is a plane inclined along +x.
type Slope struct {
	Grade    float64 // rise per unit x
	Offset   float64 // height at x=0
	Friction float64
}

// Height returns the inclined-plane elevation.
func (s *Slope) Height(x, _ float64) float64 { return s.Offset + s.Grade*x }

// Normal returns the unit normal of the inclined plane.
func (s *Slope) Normal(_, _ float64) r3.Vector {
	n := r3.Vector{X: -s.Grade, Z: 1}
	return n.Mul(1 / math.Hypot(s.Grade, 1))
}

// FrictionCoeff returns the friction coefficient.
func (s *Slope) FrictionCoeff() float64 { return s.Friction }
