package spline

import (
	"testing"

	"github.com/curioloop/optimizer/numdiff"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/trajopt/spatialmath"
)

func orientationSpline(t *testing.T) *AngularStateConverter {
	t.Helper()
	nodes := NewNodes("base-ang", 3)
	nodes.SetNode(0, r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}, r3.Vector{Z: 0.5})
	nodes.SetNode(1, r3.Vector{X: -0.3, Y: 0.1, Z: 0.8}, r3.Vector{X: 0.2})
	nodes.SetNode(2, r3.Vector{X: 0.2, Y: 0.3, Z: 1.2}, r3.Vector{})
	s, err := NewNodeSpline(nodes, FixedDurations{0.7, 0.9})
	test.That(t, err, test.ShouldBeNil)
	return NewAngularStateConverter(s)
}

func TestAngularStateConsistency(t *testing.T) {
	conv := orientationSpline(t)
	const tq = 0.5

	e, omega, alpha := conv.State(tq)
	pt := conv.Spline().Point(tq)
	test.That(t, e.Vector(), test.ShouldResemble, pt.Pos)

	wantOmega := spatialmath.AngularVelocityFromEulerRates(e, pt.Vel)
	test.That(t, omega.X, test.ShouldAlmostEqual, wantOmega.X)
	test.That(t, omega.Y, test.ShouldAlmostEqual, wantOmega.Y)
	test.That(t, omega.Z, test.ShouldAlmostEqual, wantOmega.Z)

	wantAlpha := spatialmath.AngularAccelerationFromEulerState(e, pt.Vel, pt.Acc)
	test.That(t, alpha.X, test.ShouldAlmostEqual, wantAlpha.X)
	test.That(t, alpha.Z, test.ShouldAlmostEqual, wantAlpha.Z)

	rot := conv.RotationMatrix(tq)
	want := e.RotationMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, rot.At(i, j), test.ShouldAlmostEqual, want.At(i, j))
		}
	}
}

func TestDerivOfRotVecMult(t *testing.T) {
	conv := orientationSpline(t)
	nodes := conv.Spline().Nodes()
	v := r3.Vector{X: 0.4, Y: -0.1, Z: 0.7}
	const tq = 1.1

	for _, inverse := range []bool{false, true} {
		x0 := append([]float64{}, nodes.Values()...)
		spec := numdiff.ApproxSpec{
			N: nodes.Size(), M: Dim,
			Object: func(x, y []float64) {
				nodes.SetValues(x)
				rot := conv.RotationMatrix(tq)
				if inverse {
					y[0] = rot.At(0, 0)*v.X + rot.At(1, 0)*v.Y + rot.At(2, 0)*v.Z
					y[1] = rot.At(0, 1)*v.X + rot.At(1, 1)*v.Y + rot.At(2, 1)*v.Z
					y[2] = rot.At(0, 2)*v.X + rot.At(1, 2)*v.Y + rot.At(2, 2)*v.Z
				} else {
					y[0] = rot.At(0, 0)*v.X + rot.At(0, 1)*v.Y + rot.At(0, 2)*v.Z
					y[1] = rot.At(1, 0)*v.X + rot.At(1, 1)*v.Y + rot.At(1, 2)*v.Z
					y[2] = rot.At(2, 0)*v.X + rot.At(2, 1)*v.Y + rot.At(2, 2)*v.Z
				}
			},
			Method: numdiff.Central,
		}
		diff := make([]float64, nodes.Size()*Dim)
		test.That(t, spec.Diff(x0, diff), test.ShouldBeNil)
		nodes.SetValues(x0)

		jac := conv.DerivOfRotVecMult(tq, v, inverse)
		for r := 0; r < Dim; r++ {
			for c := 0; c < nodes.Size(); c++ {
				test.That(t, jac.At(r, c), test.ShouldAlmostEqual, diff[r*nodes.Size()+c], 1e-5)
			}
		}
	}
}

func TestAngularVelocityJacobianWrtNodes(t *testing.T) {
	conv := orientationSpline(t)
	nodes := conv.Spline().Nodes()
	const tq = 0.4

	x0 := append([]float64{}, nodes.Values()...)
	spec := numdiff.ApproxSpec{
		N: nodes.Size(), M: Dim,
		Object: func(x, y []float64) {
			nodes.SetValues(x)
			_, omega, _ := conv.State(tq)
			y[0], y[1], y[2] = omega.X, omega.Y, omega.Z
		},
		Method: numdiff.Central,
	}
	diff := make([]float64, nodes.Size()*Dim)
	test.That(t, spec.Diff(x0, diff), test.ShouldBeNil)
	nodes.SetValues(x0)

	jac := conv.AngularVelocityJacobianWrtNodes(tq)
	for r := 0; r < Dim; r++ {
		for c := 0; c < nodes.Size(); c++ {
			test.That(t, jac.At(r, c), test.ShouldAlmostEqual, diff[r*nodes.Size()+c], 1e-5)
		}
	}
}
