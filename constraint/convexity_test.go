package constraint

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/trajopt/nlp"
)

func TestLoadFractionsLayout(t *testing.T) {
	load := NewLoadFractions("ee-load", 3, 2)
	test.That(t, load.Size(), test.ShouldEqual, 6)
	test.That(t, load.Samples(), test.ShouldEqual, 3)
	test.That(t, load.Legs(), test.ShouldEqual, 2)
	test.That(t, load.Index(0, 1), test.ShouldEqual, 1)
	test.That(t, load.Index(2, 0), test.ShouldEqual, 4)

	// even initial split inside [0,1]
	for i := 0; i < load.Size(); i++ {
		test.That(t, load.At(i), test.ShouldAlmostEqual, 0.5)
	}
	test.That(t, load.Bounds()[0], test.ShouldResemble, nlp.BoundsRange(0, 1))
}

func TestConvexitySatisfied(t *testing.T) {
	load := NewLoadFractions("ee-load", 1, 2)
	load.Set(load.Index(0, 0), 0.3)
	load.Set(load.Index(0, 1), 0.7)

	conv := NewConvexity(load)
	test.That(t, conv.Rows(), test.ShouldEqual, 1)

	vals := make([]float64, 1)
	conv.UpdateValues(vals)
	test.That(t, vals[0], test.ShouldAlmostEqual, 1.0)

	bds := make([]nlp.Bounds, 1)
	conv.UpdateBounds(bds)
	test.That(t, bds[0], test.ShouldResemble, nlp.BoundsEqual(1))
	test.That(t, bds[0].Contains(vals[0], 1e-9), test.ShouldBeTrue)
}

func TestConvexityViolated(t *testing.T) {
	load := NewLoadFractions("ee-load", 1, 2)
	load.Set(load.Index(0, 0), 0.3)
	load.Set(load.Index(0, 1), 0.3)

	conv := NewConvexity(load)
	vals := make([]float64, 1)
	conv.UpdateValues(vals)
	test.That(t, vals[0], test.ShouldAlmostEqual, 0.6)

	bds := make([]nlp.Bounds, 1)
	conv.UpdateBounds(bds)
	test.That(t, bds[0].Contains(vals[0], 1e-9), test.ShouldBeFalse)
}

func TestConvexityJacobian(t *testing.T) {
	load := NewLoadFractions("ee-load", 2, 3)
	conv := NewConvexity(load)

	jac := nlp.NewJacobian(conv.Rows(), load.Size())
	conv.FillJacobianBlock(load.Name(), jac)
	for k := 0; k < 2; k++ {
		for leg := 0; leg < 3; leg++ {
			test.That(t, jac.At(k, load.Index(k, leg)), test.ShouldEqual, 1)
		}
	}
	// row k only touches sample k's columns
	test.That(t, jac.At(0, load.Index(1, 0)), test.ShouldEqual, 0)

	other := nlp.NewJacobian(conv.Rows(), 4)
	conv.FillJacobianBlock("unrelated", other)
	test.That(t, other.NNZ(), test.ShouldEqual, 0)
}
