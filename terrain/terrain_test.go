package terrain

import (
	"testing"

	"go.viam.com/test"
)

func TestFlatGround(t *testing.T) {
	g := NewFlatGround(0.5)
	test.That(t, g.Height(1, 2), test.ShouldEqual, 0)
	test.That(t, g.FrictionCoeff(), test.ShouldEqual, 0.5)

	g.SetGroundHeight(0.3)
	test.That(t, g.Height(-5, 7), test.ShouldEqual, 0.3)

	n := g.Normal(0, 0)
	test.That(t, n.Z, test.ShouldEqual, 1)

	dx, dy := HeightDerivatives(g, 0, 0)
	test.That(t, dx, test.ShouldEqual, 0)
	test.That(t, dy, test.ShouldEqual, 0)
}

func TestSlope(t *testing.T) {
	s := &Slope{Grade: 0.2, Offset: 0.1, Friction: 0.8}
	test.That(t, s.Height(0, 5), test.ShouldAlmostEqual, 0.1)
	test.That(t, s.Height(2, -3), test.ShouldAlmostEqual, 0.5)

	n := s.Normal(1, 1)
	test.That(t, n.Norm(), test.ShouldAlmostEqual, 1)
	test.That(t, n.Z, test.ShouldBeGreaterThan, 0)

	// the normal must recover the grade
	dx, dy := HeightDerivatives(s, 3, -2)
	test.That(t, dx, test.ShouldAlmostEqual, 0.2)
	test.That(t, dy, test.ShouldAlmostEqual, 0)

	// and agree with a finite difference of the height field
	const h = 1e-6
	fd := (s.Height(3+h, 0) - s.Height(3-h, 0)) / (2 * h)
	test.That(t, dx, test.ShouldAlmostEqual, fd, 1e-9)
}
