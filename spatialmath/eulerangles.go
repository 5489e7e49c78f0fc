// Package spatialmath implements the orientation math the trajectory core
// optimizes over: a minimal ZYX Euler parameterization, its rotation matrix
// and analytic partials, and the kinematic maps between Euler rates and
// world-frame angular velocity.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// EulerZYX is a yaw-pitch-roll orientation: the rotation base-to-world is
// R = Rz(Yaw)·Ry(Pitch)·Rx(Roll). Components are ordered (Roll, Pitch, Yaw)
// so that spline dimension d maps onto axis d.
type EulerZYX struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// NewEulerZYX builds an orientation from its three angles in radians.
func NewEulerZYX(roll, pitch, yaw float64) EulerZYX {
	return EulerZYX{Roll: roll, Pitch: pitch, Yaw: yaw}
}

// EulerFromVector reads (Roll, Pitch, Yaw) from (X, Y, Z).
func EulerFromVector(v r3.Vector) EulerZYX {
	return EulerZYX{Roll: v.X, Pitch: v.Y, Yaw: v.Z}
}

// Vector returns the angles as (X, Y, Z) = (Roll, Pitch, Yaw).
func (e EulerZYX) Vector() r3.Vector {
	return r3.Vector{X: e.Roll, Y: e.Pitch, Z: e.Yaw}
}

// At returns angle component dim (0=Roll, 1=Pitch, 2=Yaw).
func (e EulerZYX) At(dim int) float64 {
	switch dim {
	case 0:
		return e.Roll
	case 1:
		return e.Pitch
	default:
		return e.Yaw
	}
}

// RotationMatrix returns the 3×3 base-to-world rotation.
func (e EulerZYX) RotationMatrix() *mat.Dense {
	sr, cr := math.Sincos(e.Roll)
	sp, cp := math.Sincos(e.Pitch)
	sy, cy := math.Sincos(e.Yaw)
	return mat.NewDense(3, 3, []float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	})
}

// RotationPartial returns ∂R/∂angle for the given angle dimension
// (0=Roll, 1=Pitch, 2=Yaw).
func (e EulerZYX) RotationPartial(dim int) *mat.Dense {
	sr, cr := math.Sincos(e.Roll)
	sp, cp := math.Sincos(e.Pitch)
	sy, cy := math.Sincos(e.Yaw)
	switch dim {
	case 0:
		return mat.NewDense(3, 3, []float64{
			0, cy*sp*cr + sy*sr, -cy*sp*sr + sy*cr,
			0, sy*sp*cr - cy*sr, -sy*sp*sr - cy*cr,
			0, cp * cr, -cp * sr,
		})
	case 1:
		return mat.NewDense(3, 3, []float64{
			-cy * sp, cy * cp * sr, cy * cp * cr,
			-sy * sp, sy * cp * sr, sy * cp * cr,
			-cp, -sp * sr, -sp * cr,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			-sy * cp, -sy*sp*sr - cy*cr, -sy*sp*cr + cy*sr,
			cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
			0, 0, 0,
		})
	}
}

// uniqueTol is the band around the ±π/2 gimbal pitch inside which the
// redundant yaw/roll pair collapses to a canonical representative.
const uniqueTol = 1e-3

// Unique resolves a non-unique ZYX Euler triple to its canonical
// representative in [-π,π) × [-π/2,π/2] × [-π,π) for (yaw, pitch, roll).
// Inputs within uniqueTol of a gimbal point zero the roll by convention.
// Unique is idempotent.
func Unique(e EulerZYX) EulerZYX {
	yaw, pitch, roll := wrapPi(e.Yaw), wrapPi(e.Pitch), wrapPi(e.Roll)

	switch {
	case pitch < -math.Pi/2-uniqueTol:
		yaw = shiftPi(yaw)
		pitch = -(pitch + math.Pi)
		roll = shiftPi(roll)
	case pitch <= -math.Pi/2+uniqueTol:
		yaw -= roll
		roll = 0
	case pitch < math.Pi/2-uniqueTol:
		// already unique
	case pitch <= math.Pi/2+uniqueTol:
		yaw += roll
		roll = 0
	default:
		yaw = shiftPi(yaw)
		pitch = -(pitch - math.Pi)
		roll = shiftPi(roll)
	}

	return EulerZYX{Roll: wrapPi(roll), Pitch: pitch, Yaw: wrapPi(yaw)}
}

// wrapPi maps an angle into [-π, π).
func wrapPi(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// shiftPi moves an angle by π toward zero, as kindr does when flipping a
// pitch out of the gimbal-locked half.
func shiftPi(a float64) float64 {
	if a < 0 {
		return a + math.Pi
	}
	return a - math.Pi
}
