package spline

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/spatialmath"
)

// AngularStateConverter turns a 3-parameter Euler orientation spline into
// world-frame angular state, together with the chain-rule Jacobians of that
// mapping composed with the spline's node Jacobians.
type AngularStateConverter struct {
	spline *NodeSpline
}

// NewAngularStateConverter wraps an orientation spline whose dimensions are
// (roll, pitch, yaw).
func NewAngularStateConverter(s *NodeSpline) *AngularStateConverter {
	return &AngularStateConverter{spline: s}
}

// Spline returns the underlying orientation spline.
func (c *AngularStateConverter) Spline() *NodeSpline { return c.spline }

// Euler returns the orientation at time t.
func (c *AngularStateConverter) Euler(t float64) spatialmath.EulerZYX {
	return spatialmath.EulerFromVector(c.spline.Point(t).Pos)
}

// State returns orientation, world angular velocity and world angular
// acceleration at time t.
func (c *AngularStateConverter) State(t float64) (spatialmath.EulerZYX, r3.Vector, r3.Vector) {
	pt := c.spline.Point(t)
	e := spatialmath.EulerFromVector(pt.Pos)
	omega := spatialmath.AngularVelocityFromEulerRates(e, pt.Vel)
	alpha := spatialmath.AngularAccelerationFromEulerState(e, pt.Vel, pt.Acc)
	return e, omega, alpha
}

// RotationMatrix returns the base-to-world rotation at time t.
func (c *AngularStateConverter) RotationMatrix(t float64) *mat.Dense {
	return c.Euler(t).RotationMatrix()
}

// DerivOfRotVecMult returns the 3 × nodeBlockSize Jacobian of R(t)·v (or
// Rᵀ(t)·v when inverse is set) with respect to the orientation node
// variables: ∂(Rv)/∂node = Σ_d (∂R/∂e_d · v) ⊗ J_pos[d].
func (c *AngularStateConverter) DerivOfRotVecMult(t float64, v r3.Vector, inverse bool) *nlp.Jacobian {
	e := c.Euler(t)
	jpos := c.spline.JacobianWrtNodes(t, Pos)
	out := nlp.NewJacobian(Dim, c.spline.Nodes().Size())
	for d := 0; d < Dim; d++ {
		dr := e.RotationPartial(d)
		var col r3.Vector
		if inverse {
			col = r3.Vector{
				X: dr.At(0, 0)*v.X + dr.At(1, 0)*v.Y + dr.At(2, 0)*v.Z,
				Y: dr.At(0, 1)*v.X + dr.At(1, 1)*v.Y + dr.At(2, 1)*v.Z,
				Z: dr.At(0, 2)*v.X + dr.At(1, 2)*v.Y + dr.At(2, 2)*v.Z,
			}
		} else {
			col = r3.Vector{
				X: dr.At(0, 0)*v.X + dr.At(0, 1)*v.Y + dr.At(0, 2)*v.Z,
				Y: dr.At(1, 0)*v.X + dr.At(1, 1)*v.Y + dr.At(1, 2)*v.Z,
				Z: dr.At(2, 0)*v.X + dr.At(2, 1)*v.Y + dr.At(2, 2)*v.Z,
			}
		}
		// scatter col against the spline's sensitivity of angle d
		dim := d
		jpos.Each(func(r, cIdx int, w float64) {
			if r != dim {
				return
			}
			out.Add(0, cIdx, col.X*w)
			out.Add(1, cIdx, col.Y*w)
			out.Add(2, cIdx, col.Z*w)
		})
	}
	return out
}

// AngularVelocityJacobianWrtNodes returns the 3 × nodeBlockSize Jacobian of
// the world angular velocity ω = M(e)·ė with respect to the orientation
// node variables: M·J_vel + Σ_d (∂M/∂e_d · ė) ⊗ J_pos[d].
func (c *AngularStateConverter) AngularVelocityJacobianWrtNodes(t float64) *nlp.Jacobian {
	pt := c.spline.Point(t)
	e := spatialmath.EulerFromVector(pt.Pos)

	out := nlp.MulMatrix(spatialmath.AngularVelocityMap(e), c.spline.JacobianWrtNodes(t, Vel))
	jpos := c.spline.JacobianWrtNodes(t, Pos)
	for d := 0; d < Dim; d++ {
		dm := spatialmath.AngularVelocityMapPartial(e, d)
		col := r3.Vector{
			X: dm.At(0, 0)*pt.Vel.X + dm.At(0, 1)*pt.Vel.Y + dm.At(0, 2)*pt.Vel.Z,
			Y: dm.At(1, 0)*pt.Vel.X + dm.At(1, 1)*pt.Vel.Y + dm.At(1, 2)*pt.Vel.Z,
			Z: dm.At(2, 0)*pt.Vel.X + dm.At(2, 1)*pt.Vel.Y + dm.At(2, 2)*pt.Vel.Z,
		}
		dim := d
		jpos.Each(func(r, cIdx int, w float64) {
			if r != dim {
				return
			}
			out.Add(0, cIdx, col.X*w)
			out.Add(1, cIdx, col.Y*w)
			out.Add(2, cIdx, col.Z*w)
		})
	}
	return out
}
