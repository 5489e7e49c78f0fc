package robot

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Quadruped is a point-mass quadruped model with four identical 3-DOF legs
// (hip abduction about x, hip flexion and knee flexion about y). Defaults
// approximate a mid-size hydraulic quadruped.
type Quadruped struct {
	mass     float64
	inertia  *mat.SymDense
	stance   []r3.Vector
	maxDev   r3.Vector
	hipLen   float64
	thighLen float64
	shankLen float64
	lower    []float64
	upper    []float64
}

// NewQuadruped returns the default quadruped model.
func NewQuadruped() *Quadruped {
	const x, y, z = 0.34, 0.19, -0.57
	return &Quadruped{
		mass: 80,
		inertia: mat.NewSymDense(3, []float64{
			4.0, 0, 0,
			0, 8.5, 0,
			0, 0, 10.0,
		}),
		stance: []r3.Vector{
			{X: x, Y: y, Z: z},   // left front
			{X: x, Y: -y, Z: z},  // right front
			{X: -x, Y: y, Z: z},  // left hind
			{X: -x, Y: -y, Z: z}, // right hind
		},
		maxDev:   r3.Vector{X: 0.15, Y: 0.1, Z: 0.1},
		hipLen:   0.08,
		thighLen: 0.35,
		shankLen: 0.33,
		lower:    []float64{-0.5, -1.6, -2.6},
		upper:    []float64{0.5, 1.6, -0.1},
	}
}

// NumLegs returns 4.
func (q *Quadruped) NumLegs() int { return len(q.stance) }

// NominalStanceInBase returns the four default footholds in the base frame.
func (q *Quadruped) NominalStanceInBase() []r3.Vector { return q.stance }

// MaxDeviationFromNominal returns the reach-box half-widths.
func (q *Quadruped) MaxDeviationFromNominal() r3.Vector { return q.maxDev }

// Mass returns the total mass in kg.
func (q *Quadruped) Mass() float64 { return q.mass }

// Inertia returns the rotational inertia about the base frame.
func (q *Quadruped) Inertia() *mat.SymDense { return q.inertia }

// JointLimits returns the per-joint limits, identical across legs.
func (q *Quadruped) JointLimits(int) (lower, upper []float64) {
	return q.lower, q.upper
}

// JointAngles solves the closed-form 3-DOF leg inverse kinematics for a
// foot position expressed in the base frame. The hip origin sits at the
// nominal stance offset with the leg fully retracted in z; ok is false when
// the position is outside the reachable annulus or the joint limits.
func (q *Quadruped) JointAngles(leg int, posInBase r3.Vector) ([]float64, bool) {
	if leg < 0 || leg >= len(q.stance) {
		return nil, false
	}
	hip := q.stance[leg]
	hip.Z = 0
	p := posInBase.Sub(hip)

	// abduction aligns the leg plane with the foot
	q1 := math.Atan2(p.Y, -p.Z)
	if leg%2 == 1 {
		q1 = math.Atan2(-p.Y, -p.Z) * -1
	}

	ryz := math.Hypot(p.Y, p.Z)
	if ryz < q.hipLen {
		return nil, false
	}
	ryz -= q.hipLen
	d2 := p.X*p.X + ryz*ryz
	d := math.Sqrt(d2)
	l2, l3 := q.thighLen, q.shankLen
	if d > l2+l3 || d < math.Abs(l2-l3) {
		return nil, false
	}

	cosKnee := (d2 - l2*l2 - l3*l3) / (2 * l2 * l3)
	q3 := math.Acos(cosKnee) - math.Pi // knee folds backward

	phi := math.Atan2(p.X, ryz)
	beta := math.Acos((d2 + l2*l2 - l3*l3) / (2 * l2 * d))
	q2 := phi + beta

	angles := []float64{q1, q2, q3}
	for i, a := range angles {
		if a < q.lower[i] || a > q.upper[i] {
			return nil, false
		}
	}
	return angles, true
}
