// Package robot defines the read-only robot-model boundaries the optimizer
// consumes: kinematic reach, rigid-body dynamics and per-leg inverse
// kinematics. Models answer pure queries and never call back into the core.
package robot

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Kinematic describes the reach of a robot's legs.
type Kinematic interface {
	NumLegs() int
	// NominalStanceInBase returns the natural foothold of each leg
	// expressed in the base frame.
	NominalStanceInBase() []r3.Vector
	// MaxDeviationFromNominal is the per-axis half-width of the box each
	// foot must stay inside, centered on its nominal stance offset.
	MaxDeviationFromNominal() r3.Vector
}

// Dynamic describes the rigid-body model of the base.
type Dynamic interface {
	Mass() float64
	// Inertia returns the 3×3 rotational inertia about the base frame.
	Inertia() *mat.SymDense
}

// InverseKinematics maps foot positions to joint angles, per leg. An
// unreachable position is reported through the ok flag, never a fault; the
// caller decides how to handle it.
type InverseKinematics interface {
	// JointAngles returns the joint angles placing the given leg's foot at
	// posInBase, expressed in the base frame. ok is false when no solution
	// exists within the joint limits.
	JointAngles(leg int, posInBase r3.Vector) (angles []float64, ok bool)
	// JointLimits returns the per-joint lower and upper limits of one leg.
	JointLimits(leg int) (lower, upper []float64)
}

// Model bundles the boundaries of one robot.
type Model struct {
	Kinematic Kinematic
	Dynamic   Dynamic
	IK        InverseKinematics
}
