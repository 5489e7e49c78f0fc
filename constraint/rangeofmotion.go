package constraint

import (
	"github.com/golang/geo/r3"

	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/robot"
	"go.viam.com/trajopt/spline"
)

// RangeOfMotionBox keeps one foot inside a reach box around its nominal
// stance offset. At every sample the foot position is expressed in the
// base frame using the current base linear and angular state, and each
// component is bounded by the per-robot maximum deviation:
//
//	g(t) = Rᵀ(t)·(p_foot(t) - p_base(t)) ∈ nominal ± maxDeviation
type RangeOfMotionBox struct {
	name    string
	disc    *nlp.TimeDiscretization
	baseLin *spline.NodeSpline
	baseAng *spline.AngularStateConverter
	ee      *spline.PhaseSpline
	nominal r3.Vector
	maxDev  r3.Vector
}

// NewRangeOfMotionBox builds the set for one leg.
func NewRangeOfMotionBox(
	name string,
	disc *nlp.TimeDiscretization,
	baseLin *spline.NodeSpline,
	baseAng *spline.AngularStateConverter,
	ee *spline.PhaseSpline,
	kin robot.Kinematic,
	leg int,
) *RangeOfMotionBox {
	return &RangeOfMotionBox{
		name:    name,
		disc:    disc,
		baseLin: baseLin,
		baseAng: baseAng,
		ee:      ee,
		nominal: kin.NominalStanceInBase()[leg],
		maxDev:  kin.MaxDeviationFromNominal(),
	}
}

// Name returns the set's name.
func (c *RangeOfMotionBox) Name() string { return c.name }

// Rows returns one row per sample and spatial dimension.
func (c *RangeOfMotionBox) Rows() int { return c.disc.Rows() }

// UpdateValues evaluates the foot-in-base position at every sample.
func (c *RangeOfMotionBox) UpdateValues(out []float64) {
	c.disc.UpdateValues(c, out)
}

// UpdateBounds writes the reach box at every sample.
func (c *RangeOfMotionBox) UpdateBounds(out []nlp.Bounds) {
	c.disc.UpdateBounds(c, out)
}

// FillJacobianBlock scatters the per-sample partials for one block.
func (c *RangeOfMotionBox) FillJacobianBlock(blockName string, jac *nlp.Jacobian) {
	c.disc.FillJacobianBlock(c, blockName, jac)
}

// footInBase returns the base position and the foot expressed in base.
func (c *RangeOfMotionBox) footInBase(t float64) (base, rel, inBase r3.Vector) {
	base = c.baseLin.Point(t).Pos
	foot := c.ee.Point(t).Pos
	rel = foot.Sub(base)
	rt := c.baseAng.RotationMatrix(t)
	inBase = r3.Vector{
		X: rt.At(0, 0)*rel.X + rt.At(1, 0)*rel.Y + rt.At(2, 0)*rel.Z,
		Y: rt.At(0, 1)*rel.X + rt.At(1, 1)*rel.Y + rt.At(2, 1)*rel.Z,
		Z: rt.At(0, 2)*rel.X + rt.At(1, 2)*rel.Y + rt.At(2, 2)*rel.Z,
	}
	return base, rel, inBase
}

// ValuesAtInstance writes the foot-in-base components of sample k.
func (c *RangeOfMotionBox) ValuesAtInstance(t float64, k int, out []float64) {
	_, _, inBase := c.footInBase(t)
	out[c.disc.Row(k, 0)] = inBase.X
	out[c.disc.Row(k, 1)] = inBase.Y
	out[c.disc.Row(k, 2)] = inBase.Z
}

// BoundsAtInstance writes the box bounds of sample k.
func (c *RangeOfMotionBox) BoundsAtInstance(_ float64, k int, out []nlp.Bounds) {
	out[c.disc.Row(k, 0)] = nlp.BoundsRange(c.nominal.X-c.maxDev.X, c.nominal.X+c.maxDev.X)
	out[c.disc.Row(k, 1)] = nlp.BoundsRange(c.nominal.Y-c.maxDev.Y, c.nominal.Y+c.maxDev.Y)
	out[c.disc.Row(k, 2)] = nlp.BoundsRange(c.nominal.Z-c.maxDev.Z, c.nominal.Z+c.maxDev.Z)
}

// JacobianAtInstance writes sample k's partials with respect to one block.
func (c *RangeOfMotionBox) JacobianAtInstance(t float64, k int, blockName string, jac *nlp.Jacobian) {
	rt := c.baseAng.RotationMatrix(t).T()
	switch blockName {
	case c.ee.Nodes().Name():
		c.scatter(jac, k, nlp.MulMatrix(rt, c.ee.JacobianWrtNodes(t, spline.Pos)), 1)
	case c.baseLin.Nodes().Name():
		c.scatter(jac, k, nlp.MulMatrix(rt, c.baseLin.JacobianWrtNodes(t, spline.Pos)), -1)
	case c.baseAng.Spline().Nodes().Name():
		_, rel, _ := c.footInBase(t)
		c.scatter(jac, k, c.baseAng.DerivOfRotVecMult(t, rel, true), 1)
	case c.ee.Durations().Name():
		c.scatter(jac, k, nlp.MulMatrix(rt, c.ee.JacobianWrtDurations(t, spline.Pos)), 1)
	}
}

func (c *RangeOfMotionBox) scatter(jac *nlp.Jacobian, k int, small *nlp.Jacobian, s float64) {
	small.Each(func(r, col int, v float64) {
		jac.Add(c.disc.Row(k, r), col, s*v)
	})
}
