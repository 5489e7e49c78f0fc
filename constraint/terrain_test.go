package constraint

import (
	"math"
	"testing"

	"github.com/curioloop/optimizer/numdiff"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/spline"
	"go.viam.com/trajopt/terrain"
)

func contactSetup(t *testing.T, terr terrain.Terrain) (*nlp.Problem, *spline.PhaseSpline) {
	t.Helper()
	phases := []spline.Phase{
		{InContact: true, Duration: 0.5, Segments: 1},
		{InContact: false, Duration: 0.5, Segments: 2},
	}
	ee, err := spline.NewPhaseSpline("ee-motion-0", phases, spline.Motion,
		spline.FixedDurations(spline.PhaseSegmentDurations(phases)))
	test.That(t, err, test.ShouldBeNil)
	ee.Nodes().SetNode(0, r3.Vector{X: 0.3}, r3.Vector{})
	ee.Nodes().SetNode(1, r3.Vector{X: 0.5, Z: 0.12}, r3.Vector{X: 0.4})
	ee.Nodes().SetNode(2, r3.Vector{X: 0.7, Z: 0.05}, r3.Vector{})

	vars := nlp.NewVariableContainer()
	test.That(t, vars.AddBlock(ee.Nodes()), test.ShouldBeNil)

	disc := nlp.NewTimeDiscretization(1.0, 0.25, 1)
	comp := nlp.NewComposite("constraints", vars)
	comp.Add(NewTerrainContact("terrain-contact-0", disc, ee, terr))
	return nlp.NewProblem(vars, comp, nil), ee
}

func TestTerrainContactValuesAndBounds(t *testing.T) {
	ground := terrain.NewFlatGround(0.5)
	p, ee := contactSetup(t, ground)

	vals := p.ConstraintValues()
	bds := p.ConstraintBounds()
	test.That(t, len(vals), test.ShouldEqual, 5)

	// the stance foothold sits on the surface
	test.That(t, vals[0], test.ShouldAlmostEqual, 0)
	test.That(t, bds[0], test.ShouldResemble, nlp.BoundsZero)

	// swing samples only need ground clearance
	test.That(t, ee.InContactAt(0.75), test.ShouldBeFalse)
	test.That(t, bds[3].Lower, test.ShouldEqual, 0)
	test.That(t, math.IsInf(bds[3].Upper, 1), test.ShouldBeTrue)
}

func TestTerrainContactOnSlope(t *testing.T) {
	slope := &terrain.Slope{Grade: 0.1, Offset: 0.02, Friction: 0.6}
	p, ee := contactSetup(t, slope)

	// the clearance subtracts the local surface height
	foot := ee.Point(0).Pos
	vals := p.ConstraintValues()
	test.That(t, vals[0], test.ShouldAlmostEqual, foot.Z-slope.Height(foot.X, foot.Y))
}

func TestTerrainContactJacobian(t *testing.T) {
	slope := &terrain.Slope{Grade: 0.15, Offset: 0.01, Friction: 0.6}
	p, _ := contactSetup(t, slope)
	n := p.Dimension()
	m := p.ConstraintRows()
	x0 := p.VariableValues()

	spec := numdiff.ApproxSpec{
		N: n, M: m,
		Object: func(x, y []float64) {
			test.That(t, p.SetVariables(x), test.ShouldBeNil)
			copy(y, p.ConstraintValues())
		},
		Method: numdiff.Central,
	}
	diff := make([]float64, n*m)
	test.That(t, spec.Diff(x0, diff), test.ShouldBeNil)
	test.That(t, p.SetVariables(x0), test.ShouldBeNil)

	jac := p.ConstraintJacobian()
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			test.That(t, jac.At(r, c), test.ShouldAlmostEqual, diff[r*n+c], 1e-5)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	durs, err := spline.NewPhaseDurations("ee-durations-0", []float64{0.4, 0.3, 0.3}, true, 0.1)
	test.That(t, err, test.ShouldBeNil)
	set := NewTotalDuration(durs, 1.0)
	test.That(t, set.Rows(), test.ShouldEqual, 1)

	vals := make([]float64, 1)
	set.UpdateValues(vals)
	test.That(t, vals[0], test.ShouldAlmostEqual, 1.0)

	bds := make([]nlp.Bounds, 1)
	set.UpdateBounds(bds)
	test.That(t, bds[0], test.ShouldResemble, nlp.BoundsEqual(1.0))

	durs.SetValues([]float64{0.5, 0.3, 0.3})
	set.UpdateValues(vals)
	test.That(t, vals[0], test.ShouldAlmostEqual, 1.1)
	test.That(t, bds[0].Contains(vals[0], 1e-9), test.ShouldBeFalse)

	jac := nlp.NewJacobian(1, durs.Size())
	set.FillJacobianBlock(durs.Name(), jac)
	for i := 0; i < durs.Size(); i++ {
		test.That(t, jac.At(0, i), test.ShouldEqual, 1)
	}
	other := nlp.NewJacobian(1, 2)
	set.FillJacobianBlock("unrelated", other)
	test.That(t, other.NNZ(), test.ShouldEqual, 0)
}
