package constraint

import (
	"math"

	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/spline"
	"go.viam.com/trajopt/terrain"
)

// TerrainContact keeps each foot consistent with the ground: while in
// contact the foot height equals the terrain height under it, and during
// swing the foot stays on or above the surface:
//
//	g(t) = p_z(t) - h(p_x(t), p_y(t))
//
// with bounds [0,0] in contact and [0,∞) in swing.
type TerrainContact struct {
	name string
	disc *nlp.TimeDiscretization
	ee   *spline.PhaseSpline
	terr terrain.Terrain
}

// NewTerrainContact builds the set for one leg's motion spline. The
// discretization must carry a single dimension (one row per sample).
func NewTerrainContact(name string, disc *nlp.TimeDiscretization, ee *spline.PhaseSpline, terr terrain.Terrain) *TerrainContact {
	return &TerrainContact{name: name, disc: disc, ee: ee, terr: terr}
}

// Name returns the set's name.
func (c *TerrainContact) Name() string { return c.name }

// Rows returns one row per sample.
func (c *TerrainContact) Rows() int { return c.disc.Rows() }

// UpdateValues evaluates the clearance at every sample.
func (c *TerrainContact) UpdateValues(out []float64) {
	c.disc.UpdateValues(c, out)
}

// UpdateBounds writes the contact-dependent bounds.
func (c *TerrainContact) UpdateBounds(out []nlp.Bounds) {
	c.disc.UpdateBounds(c, out)
}

// FillJacobianBlock scatters the per-sample partials for one block.
func (c *TerrainContact) FillJacobianBlock(blockName string, jac *nlp.Jacobian) {
	c.disc.FillJacobianBlock(c, blockName, jac)
}

// ValuesAtInstance writes the clearance of sample k.
func (c *TerrainContact) ValuesAtInstance(t float64, k int, out []float64) {
	p := c.ee.Point(t).Pos
	out[c.disc.Row(k, 0)] = p.Z - c.terr.Height(p.X, p.Y)
}

// BoundsAtInstance pins stance samples onto the surface.
func (c *TerrainContact) BoundsAtInstance(t float64, k int, out []nlp.Bounds) {
	if c.ee.InContactAt(t) {
		out[c.disc.Row(k, 0)] = nlp.BoundsZero
	} else {
		out[c.disc.Row(k, 0)] = nlp.BoundsRange(0, math.Inf(1))
	}
}

// JacobianAtInstance writes sample k's partials: the z row of the foot
// Jacobian minus the terrain slope times the horizontal rows.
func (c *TerrainContact) JacobianAtInstance(t float64, k int, blockName string, jac *nlp.Jacobian) {
	var small *nlp.Jacobian
	switch blockName {
	case c.ee.Nodes().Name():
		small = c.ee.JacobianWrtNodes(t, spline.Pos)
	case c.ee.Durations().Name():
		small = c.ee.JacobianWrtDurations(t, spline.Pos)
	default:
		return
	}
	p := c.ee.Point(t).Pos
	dhx, dhy := terrain.HeightDerivatives(c.terr, p.X, p.Y)
	row := c.disc.Row(k, 0)
	small.Each(func(r, col int, v float64) {
		switch r {
		case 0:
			jac.Add(row, col, -dhx*v)
		case 1:
			jac.Add(row, col, -dhy*v)
		case 2:
			jac.Add(row, col, v)
		}
	})
}
