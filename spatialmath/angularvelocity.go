package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// AngularVelocityMap returns M(e), the 3×3 map from ZYX Euler rates
// (roll̇, pitcḣ, yaẇ) to world-frame angular velocity: ω = M(e)·ė.
func AngularVelocityMap(e EulerZYX) *mat.Dense {
	sp, cp := math.Sincos(e.Pitch)
	sy, cy := math.Sincos(e.Yaw)
	return mat.NewDense(3, 3, []float64{
		cy * cp, -sy, 0,
		sy * cp, cy, 0,
		-sp, 0, 1,
	})
}

// AngularVelocityMapDot returns Ṁ(e, ė), the time derivative of the rate
// map, used for angular acceleration: α = Ṁ·ė + M·ë.
func AngularVelocityMapDot(e EulerZYX, rates r3.Vector) *mat.Dense {
	sp, cp := math.Sincos(e.Pitch)
	sy, cy := math.Sincos(e.Yaw)
	pd, yd := rates.Y, rates.Z
	return mat.NewDense(3, 3, []float64{
		-sy*yd*cp - cy*sp*pd, -cy * yd, 0,
		cy*yd*cp - sy*sp*pd, -sy * yd, 0,
		-cp * pd, 0, 0,
	})
}

// AngularVelocityMapPartial returns ∂M/∂angle for the given angle dimension
// (0=Roll, 1=Pitch, 2=Yaw). M does not depend on roll.
func AngularVelocityMapPartial(e EulerZYX, dim int) *mat.Dense {
	sp, cp := math.Sincos(e.Pitch)
	sy, cy := math.Sincos(e.Yaw)
	switch dim {
	case 0:
		return mat.NewDense(3, 3, nil)
	case 1:
		return mat.NewDense(3, 3, []float64{
			-cy * sp, 0, 0,
			-sy * sp, 0, 0,
			-cp, 0, 0,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			-sy * cp, -cy, 0,
			cy * cp, -sy, 0,
			0, 0, 0,
		})
	}
}

// AngularVelocityFromEulerRates maps Euler rates at orientation e to the
// world-frame angular velocity.
func AngularVelocityFromEulerRates(e EulerZYX, rates r3.Vector) r3.Vector {
	return mulVec(AngularVelocityMap(e), rates)
}

// AngularAccelerationFromEulerState maps Euler rates and accelerations at
// orientation e to the world-frame angular acceleration.
func AngularAccelerationFromEulerState(e EulerZYX, rates, accels r3.Vector) r3.Vector {
	a := mulVec(AngularVelocityMapDot(e, rates), rates)
	return a.Add(mulVec(AngularVelocityMap(e), accels))
}

func mulVec(m *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}
