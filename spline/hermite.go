package spline

import "github.com/golang/geo/r3"

// One cubic Hermite segment: p(τ) = a + bτ + cτ² + dτ³ with coefficients
// fixed by the boundary nodes (p0,v0), (p1,v1) and the duration T:
//
//	a = p0
//	b = v0
//	c = (-3p0 - 2v0·T + 3p1 - v1·T) / T²
//	d = ( 2p0 +  v0·T - 2p1 + v1·T) / T³

// hermitePoint evaluates position, velocity and acceleration at local time
// tau within a segment of duration T.
func hermitePoint(tau, T float64, p0, v0, p1, v1 r3.Vector) Point {
	a, b, c, d := hermiteCoeffs(T, p0, v0, p1, v1)
	return Point{
		Pos: a.Add(b.Mul(tau)).Add(c.Mul(tau * tau)).Add(d.Mul(tau * tau * tau)),
		Vel: b.Add(c.Mul(2 * tau)).Add(d.Mul(3 * tau * tau)),
		Acc: c.Mul(2).Add(d.Mul(6 * tau)),
	}
}

// hermiteJerk returns the (constant) third derivative of a segment.
func hermiteJerk(T float64, p0, v0, p1, v1 r3.Vector) r3.Vector {
	_, _, _, d := hermiteCoeffs(T, p0, v0, p1, v1)
	return d.Mul(6)
}

func hermiteCoeffs(T float64, p0, v0, p1, v1 r3.Vector) (a, b, c, d r3.Vector) {
	t2 := T * T
	t3 := t2 * T
	a = p0
	b = v0
	c = p0.Mul(-3 / t2).Add(v0.Mul(-2 / T)).Add(p1.Mul(3 / t2)).Add(v1.Mul(-1 / T))
	d = p0.Mul(2 / t3).Add(v0.Mul(1 / t2)).Add(p1.Mul(-2 / t3)).Add(v1.Mul(1 / t2))
	return a, b, c, d
}

// basisWeights returns the weights of the four boundary scalars
// (p0, v0, p1, v1) in the value of the given derivative at local time tau.
// These weights are exactly the Jacobian entries of the evaluation with
// respect to the node variables.
func basisWeights(d Deriv, tau, T float64) [4]float64 {
	s := tau / T
	s2 := s * s
	s3 := s2 * s
	switch d {
	case Pos:
		return [4]float64{
			1 - 3*s2 + 2*s3,
			T * (s - 2*s2 + s3),
			3*s2 - 2*s3,
			T * (s3 - s2),
		}
	case Vel:
		return [4]float64{
			(-6*s + 6*s2) / T,
			1 - 4*s + 3*s2,
			(6*s - 6*s2) / T,
			3*s2 - 2*s,
		}
	default:
		return [4]float64{
			(-6 + 12*s) / (T * T),
			(-4 + 6*s) / T,
			(6 - 12*s) / (T * T),
			(-2 + 6*s) / T,
		}
	}
}

// durationPartial returns the partial of the segment's own evaluation with
// respect to its duration T at fixed local time tau: only the c and d
// coefficients depend on T.
func durationPartial(d Deriv, tau, T float64, p0, v0, p1, v1 r3.Vector) r3.Vector {
	t2 := T * T
	t3 := t2 * T
	t4 := t3 * T
	dc := p0.Mul(6 / t3).Add(v0.Mul(2 / t2)).Add(p1.Mul(-6 / t3)).Add(v1.Mul(1 / t2))
	dd := p0.Mul(-6 / t4).Add(v0.Mul(-2 / t3)).Add(p1.Mul(6 / t4)).Add(v1.Mul(-2 / t3))
	switch d {
	case Pos:
		return dc.Mul(tau * tau).Add(dd.Mul(tau * tau * tau))
	case Vel:
		return dc.Mul(2 * tau).Add(dd.Mul(3 * tau * tau))
	default:
		return dc.Mul(2).Add(dd.Mul(6 * tau))
	}
}
