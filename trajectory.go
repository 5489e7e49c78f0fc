package trajopt

import (
	"github.com/golang/geo/r3"

	"go.viam.com/trajopt/robot"
	"go.viam.com/trajopt/spatialmath"
)

// BodyState is the floating-base state at one sampled instant.
type BodyState struct {
	Pos        r3.Vector
	Vel        r3.Vector
	Euler      spatialmath.EulerZYX
	AngularVel r3.Vector
}

// FootState is one endeffector's state at a sampled instant.
type FootState struct {
	// Contact reports whether the foot carries load at this instant.
	Contact bool
	Pos     r3.Vector
	Vel     r3.Vector
	Force   r3.Vector
	// Joints holds the leg's joint angles when the foot position is
	// reachable; nil otherwise.
	Joints    []float64
	Reachable bool
}

// RobotState is the whole-robot state at one sampled instant.
type RobotState struct {
	Time float64
	Base BodyState
	Feet []FootState
}

// Sample reads the trajectory held by the splines at fixed intervals. It is
// a pure read of the current variable values: calling it before a solve
// returns the initialization, after a solve the optimized motion. The final
// instant t = total is always included.
func Sample(h *SplineHolder, dt float64) []RobotState {
	total := h.BaseLinear.Total()
	var states []RobotState
	t := 0.0
	for {
		states = append(states, sampleAt(h, t))
		if t >= total-1e-9 {
			break
		}
		t += dt
		if t > total {
			t = total
		}
	}
	return states
}

func sampleAt(h *SplineHolder, t float64) RobotState {
	basePt := h.BaseLinear.Point(t)
	euler, omega, _ := h.BaseAngular.State(t)
	state := RobotState{
		Time: t,
		Base: BodyState{
			Pos:        basePt.Pos,
			Vel:        basePt.Vel,
			Euler:      euler,
			AngularVel: omega,
		},
	}
	for leg, motion := range h.EEMotion {
		pt := motion.Point(t)
		state.Feet = append(state.Feet, FootState{
			Contact: motion.IsConstantPhase(t),
			Pos:     pt.Pos,
			Vel:     pt.Vel,
			Force:   h.EEForce[leg].Point(t).Pos,
		})
	}
	return state
}

// AnnotateJoints runs inverse kinematics over every sampled instant,
// filling each foot's joint angles and reachability flag in place. Feet the
// model cannot reach keep nil joints with Reachable false.
func AnnotateJoints(states []RobotState, ik robot.InverseKinematics, h *SplineHolder) {
	for s := range states {
		t := states[s].Time
		base := h.BaseLinear.Point(t).Pos
		rot := h.BaseAngular.RotationMatrix(t)
		for leg := range states[s].Feet {
			rel := states[s].Feet[leg].Pos.Sub(base)
			inBase := r3.Vector{
				X: rot.At(0, 0)*rel.X + rot.At(1, 0)*rel.Y + rot.At(2, 0)*rel.Z,
				Y: rot.At(0, 1)*rel.X + rot.At(1, 1)*rel.Y + rot.At(2, 1)*rel.Z,
				Z: rot.At(0, 2)*rel.X + rot.At(1, 2)*rel.Y + rot.At(2, 2)*rel.Z,
			}
			angles, ok := ik.JointAngles(leg, inBase)
			states[s].Feet[leg].Joints = angles
			states[s].Feet[leg].Reachable = ok
		}
	}
}
