package nlp

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestBoundsConstructors(t *testing.T) {
	test.That(t, math.IsInf(BoundsNone.Lower, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(BoundsNone.Upper, 1), test.ShouldBeTrue)
	test.That(t, BoundsZero, test.ShouldResemble, BoundsEqual(0))
	test.That(t, BoundsGreaterZero.Lower, test.ShouldEqual, 0)
	test.That(t, math.IsInf(BoundsGreaterZero.Upper, 1), test.ShouldBeTrue)
	test.That(t, BoundsSmallerZero.Upper, test.ShouldEqual, 0)

	b := BoundsRange(-1, 2)
	test.That(t, b.Lower, test.ShouldEqual, -1)
	test.That(t, b.Upper, test.ShouldEqual, 2)
}

func TestBoundsPredicates(t *testing.T) {
	test.That(t, BoundsEqual(3).IsEquality(), test.ShouldBeTrue)
	test.That(t, BoundsRange(0, 1).IsEquality(), test.ShouldBeFalse)
	test.That(t, BoundsNone.IsEquality(), test.ShouldBeFalse)

	b := BoundsRange(0, 1)
	test.That(t, b.Contains(0.5, 0), test.ShouldBeTrue)
	test.That(t, b.Contains(0, 0), test.ShouldBeTrue)
	test.That(t, b.Contains(1.1, 0), test.ShouldBeFalse)
	test.That(t, b.Contains(1.05, 0.1), test.ShouldBeTrue)
	test.That(t, b.Contains(-0.2, 0.1), test.ShouldBeFalse)
}
