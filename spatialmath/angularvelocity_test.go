package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestAngularVelocityAtIdentity(t *testing.T) {
	// with zero angles the map is the identity: ω = ė
	e := EulerZYX{}
	rates := r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}
	w := AngularVelocityFromEulerRates(e, rates)
	test.That(t, w.X, test.ShouldAlmostEqual, 0.1)
	test.That(t, w.Y, test.ShouldAlmostEqual, 0.2)
	test.That(t, w.Z, test.ShouldAlmostEqual, 0.3)
}

func TestYawRateIsVerticalAngularVelocity(t *testing.T) {
	// a pure yaw rate spins about ẑ regardless of the current yaw
	e := NewEulerZYX(0, 0, 1.2)
	w := AngularVelocityFromEulerRates(e, r3.Vector{Z: 0.7})
	test.That(t, w.X, test.ShouldAlmostEqual, 0)
	test.That(t, w.Y, test.ShouldAlmostEqual, 0)
	test.That(t, w.Z, test.ShouldAlmostEqual, 0.7)
}

func TestAngularVelocityMapColumns(t *testing.T) {
	// column 0 is the roll axis rotated by yaw and pitch, column 1 the
	// pitch axis rotated by yaw, column 2 the world ẑ
	e := NewEulerZYX(0.9, 0.4, -0.6)
	m := AngularVelocityMap(e)

	sy, cy := math.Sincos(e.Yaw)
	sp, cp := math.Sincos(e.Pitch)
	test.That(t, m.At(0, 0), test.ShouldAlmostEqual, cy*cp)
	test.That(t, m.At(1, 0), test.ShouldAlmostEqual, sy*cp)
	test.That(t, m.At(2, 0), test.ShouldAlmostEqual, -sp)
	test.That(t, m.At(0, 1), test.ShouldAlmostEqual, -sy)
	test.That(t, m.At(1, 1), test.ShouldAlmostEqual, cy)
	test.That(t, m.At(2, 1), test.ShouldAlmostEqual, 0)
	test.That(t, m.At(2, 2), test.ShouldAlmostEqual, 1)
}

func TestAngularVelocityMapDotMatchesFiniteDifferences(t *testing.T) {
	e := NewEulerZYX(0.3, -0.5, 0.8)
	rates := r3.Vector{X: 0.4, Y: -0.2, Z: 0.6}

	const h = 1e-7
	at := func(s float64) *mat.Dense {
		return AngularVelocityMap(EulerFromVector(e.Vector().Add(rates.Mul(s))))
	}
	plus, minus := at(h), at(-h)
	analytic := AngularVelocityMapDot(e, rates)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			fd := (plus.At(i, j) - minus.At(i, j)) / (2 * h)
			test.That(t, analytic.At(i, j), test.ShouldAlmostEqual, fd, 1e-6)
		}
	}
}

func TestAngularVelocityMapPartials(t *testing.T) {
	e := NewEulerZYX(0.2, 0.7, -1.3)
	const h = 1e-7
	for dim := 0; dim < 3; dim++ {
		bump := func(s float64) *mat.Dense {
			v := e.Vector()
			switch dim {
			case 0:
				v.X += s
			case 1:
				v.Y += s
			default:
				v.Z += s
			}
			return AngularVelocityMap(EulerFromVector(v))
		}
		plus, minus := bump(h), bump(-h)
		analytic := AngularVelocityMapPartial(e, dim)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				fd := (plus.At(i, j) - minus.At(i, j)) / (2 * h)
				test.That(t, analytic.At(i, j), test.ShouldAlmostEqual, fd, 1e-6)
			}
		}
	}
}

func TestAngularAcceleration(t *testing.T) {
	// with zero rates the acceleration reduces to M·ë
	e := NewEulerZYX(0.3, 0.1, 0.5)
	accels := r3.Vector{X: 1, Y: -2, Z: 3}
	a := AngularAccelerationFromEulerState(e, r3.Vector{}, accels)
	want := AngularVelocityFromEulerRates(e, accels)
	test.That(t, a.X, test.ShouldAlmostEqual, want.X)
	test.That(t, a.Y, test.ShouldAlmostEqual, want.Y)
	test.That(t, a.Z, test.ShouldAlmostEqual, want.Z)
}
