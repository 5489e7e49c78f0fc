package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestRotationMatrixAxes(t *testing.T) {
	// pure yaw of 90° sends x̂ to ŷ
	r := NewEulerZYX(0, 0, math.Pi/2).RotationMatrix()
	test.That(t, r.At(0, 0), test.ShouldAlmostEqual, 0)
	test.That(t, r.At(1, 0), test.ShouldAlmostEqual, 1)
	test.That(t, r.At(2, 0), test.ShouldAlmostEqual, 0)

	// pure pitch of 90° sends x̂ to -ẑ
	r = NewEulerZYX(0, math.Pi/2, 0).RotationMatrix()
	test.That(t, r.At(0, 0), test.ShouldAlmostEqual, 0)
	test.That(t, r.At(2, 0), test.ShouldAlmostEqual, -1)

	// pure roll of 90° sends ŷ to ẑ
	r = NewEulerZYX(math.Pi/2, 0, 0).RotationMatrix()
	test.That(t, r.At(1, 1), test.ShouldAlmostEqual, 0)
	test.That(t, r.At(2, 1), test.ShouldAlmostEqual, 1)
}

func TestRotationMatrixOrthonormal(t *testing.T) {
	e := NewEulerZYX(0.3, -0.7, 1.9)
	r := e.RotationMatrix()

	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			test.That(t, rtr.At(i, j), test.ShouldAlmostEqual, want, 1e-12)
		}
	}
	test.That(t, mat.Det(r), test.ShouldAlmostEqual, 1, 1e-12)
}

func TestRotationPartialMatchesFiniteDifferences(t *testing.T) {
	e := NewEulerZYX(0.4, 0.2, -1.1)
	const h = 1e-7
	for dim := 0; dim < 3; dim++ {
		v := e.Vector()
		bump := func(s float64) *mat.Dense {
			w := v
			switch dim {
			case 0:
				w.X += s
			case 1:
				w.Y += s
			default:
				w.Z += s
			}
			return EulerFromVector(w).RotationMatrix()
		}
		plus, minus := bump(h), bump(-h)
		analytic := e.RotationPartial(dim)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				fd := (plus.At(i, j) - minus.At(i, j)) / (2 * h)
				test.That(t, analytic.At(i, j), test.ShouldAlmostEqual, fd, 1e-6)
			}
		}
	}
}

func TestUniqueIdempotentAndInRange(t *testing.T) {
	cases := []EulerZYX{
		{Roll: 0.1, Pitch: 0.2, Yaw: 0.3},
		{Roll: 3.5, Pitch: 1.8, Yaw: -4.0},
		{Roll: -2.9, Pitch: -2.2, Yaw: 6.4},
		{Roll: 0.5, Pitch: math.Pi / 2, Yaw: 0.2},
		{Roll: -0.4, Pitch: -math.Pi / 2, Yaw: 1.0},
		{Roll: math.Pi, Pitch: math.Pi, Yaw: math.Pi},
	}
	for _, c := range cases {
		u := Unique(c)
		test.That(t, u.Pitch, test.ShouldBeBetweenOrEqual, -math.Pi/2-uniqueTol, math.Pi/2+uniqueTol)
		test.That(t, u.Yaw, test.ShouldBeBetweenOrEqual, -math.Pi, math.Pi)
		test.That(t, u.Roll, test.ShouldBeBetweenOrEqual, -math.Pi, math.Pi)

		again := Unique(u)
		test.That(t, again.Roll, test.ShouldAlmostEqual, u.Roll)
		test.That(t, again.Pitch, test.ShouldAlmostEqual, u.Pitch)
		test.That(t, again.Yaw, test.ShouldAlmostEqual, u.Yaw)
	}
}

func TestUniquePreservesRotation(t *testing.T) {
	cases := []EulerZYX{
		{Roll: 3.5, Pitch: 1.8, Yaw: -4.0},
		{Roll: -2.9, Pitch: -2.2, Yaw: 6.4},
		{Roll: 1.2, Pitch: 0.4, Yaw: 5.1},
	}
	for _, c := range cases {
		want := c.RotationMatrix()
		got := Unique(c).RotationMatrix()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				test.That(t, got.At(i, j), test.ShouldAlmostEqual, want.At(i, j), 1e-9)
			}
		}
	}
}

func TestUniqueGimbalCollapsesRoll(t *testing.T) {
	u := Unique(EulerZYX{Roll: 0.5, Pitch: math.Pi / 2, Yaw: 0.2})
	test.That(t, u.Roll, test.ShouldEqual, 0)
	test.That(t, u.Yaw, test.ShouldAlmostEqual, 0.7)

	u = Unique(EulerZYX{Roll: 0.5, Pitch: -math.Pi / 2, Yaw: 0.2})
	test.That(t, u.Roll, test.ShouldEqual, 0)
	test.That(t, u.Yaw, test.ShouldAlmostEqual, -0.3)
}

func TestVectorRoundTrip(t *testing.T) {
	e := NewEulerZYX(0.1, 0.2, 0.3)
	test.That(t, EulerFromVector(e.Vector()), test.ShouldResemble, e)
	test.That(t, e.Vector(), test.ShouldResemble, r3.Vector{X: 0.1, Y: 0.2, Z: 0.3})
	test.That(t, e.At(0), test.ShouldEqual, 0.1)
	test.That(t, e.At(1), test.ShouldEqual, 0.2)
	test.That(t, e.At(2), test.ShouldEqual, 0.3)
}
