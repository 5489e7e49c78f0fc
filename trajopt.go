package trajopt

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/robot"
	"go.viam.com/trajopt/solver"
	"go.viam.com/trajopt/spatialmath"
	"go.viam.com/trajopt/terrain"
)

// TrajOpt is the top-level orchestrator: it holds the robot model, terrain
// and boundary states, assembles the problem, runs a solver and samples the
// result. Methods must be called in order: states, parameters, solve.
type TrajOpt struct {
	logger  golog.Logger
	model   robot.Model
	terr    terrain.Terrain
	factory *Factory

	problem *nlp.Problem
	holder  *SplineHolder
}

// New creates an orchestrator for one robot on one terrain.
func New(logger golog.Logger, model robot.Model, terr terrain.Terrain) *TrajOpt {
	return &TrajOpt{
		logger:  logger,
		model:   model,
		terr:    terr,
		factory: &Factory{Model: model, Terrain: terr},
	}
}

// SetBoundaryStates fixes the initial and goal base states. Orientations
// are canonicalized so equivalent Euler angles produce identical problems.
func (to *TrajOpt) SetBoundaryStates(initial, goal BaseState) {
	initial.Euler = spatialmath.Unique(initial.Euler)
	goal.Euler = spatialmath.Unique(goal.Euler)
	to.factory.Initial = initial
	to.factory.Goal = goal

	// on flat ground, anchor the surface at the average initial foot height
	if flat, ok := to.terr.(*terrain.FlatGround); ok && len(to.factory.InitialFeet) > 0 {
		sum := 0.0
		for _, p := range to.factory.InitialFeet {
			sum += p.Z
		}
		flat.SetGroundHeight(sum / float64(len(to.factory.InitialFeet)))
	}
}

// SetInitialFeet overrides the derived initial footholds. Call before
// SetBoundaryStates so the ground height can account for them.
func (to *TrajOpt) SetInitialFeet(feet []r3.Vector) {
	to.factory.InitialFeet = feet
}

// SetParameters fixes the problem shape.
func (to *TrajOpt) SetParameters(p Parameters) {
	to.factory.Params = p
}

// BuildProblem assembles the variable blocks, constraints and costs. It may
// be called again after changing states or parameters; each call produces a
// fresh problem.
func (to *TrajOpt) BuildProblem() error {
	problem, holder, err := to.factory.Build()
	if err != nil {
		return err
	}
	to.problem = problem
	to.holder = holder
	to.logger.Debugw("problem assembled",
		"variables", problem.Dimension(),
		"constraint rows", problem.ConstraintRows(),
	)
	return nil
}

// Problem returns the assembled problem, or nil before BuildProblem.
func (to *TrajOpt) Problem() *nlp.Problem { return to.problem }

// Splines returns the spline holder, or nil before BuildProblem.
func (to *TrajOpt) Splines() *SplineHolder { return to.holder }

// Solve runs the given solver over the assembled problem. The best decision
// vector found is left in the variable blocks either way.
func (to *TrajOpt) Solve(s solver.Solver) (solver.Result, error) {
	if to.problem == nil {
		return solver.Result{}, errors.New("no problem assembled; call BuildProblem first")
	}
	return s.Solve(to.problem)
}

// Trajectory samples the current motion at the given interval and runs
// inverse kinematics over every instant.
func (to *TrajOpt) Trajectory(dt float64) ([]RobotState, error) {
	if to.holder == nil {
		return nil, errors.New("no problem assembled; call BuildProblem first")
	}
	states := Sample(to.holder, dt)
	if to.model.IK != nil {
		AnnotateJoints(states, to.model.IK, to.holder)
	}
	return states, nil
}
