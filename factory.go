package trajopt

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/trajopt/constraint"
	"go.viam.com/trajopt/cost"
	"go.viam.com/trajopt/nlp"
	"go.viam.com/trajopt/robot"
	"go.viam.com/trajopt/spatialmath"
	"go.viam.com/trajopt/spline"
	"go.viam.com/trajopt/terrain"
)

// Variable block identities. Fixed strings so constraint sets can match
// Jacobian requests against them; per-leg blocks carry the leg index suffix.
const (
	blockBaseLin = "base-lin"
	blockBaseAng = "base-ang"
	blockLoad    = "ee-load"
)

func blockEEMotion(leg int) string    { return fmt.Sprintf("ee-motion-%d", leg) }
func blockEEForce(leg int) string     { return fmt.Sprintf("ee-force-%d", leg) }
func blockEEDurations(leg int) string { return fmt.Sprintf("ee-durations-%d", leg) }

const gravity = 9.80665

// BaseState is a boundary condition on the floating base.
type BaseState struct {
	Pos   r3.Vector
	Euler spatialmath.EulerZYX
}

// SplineHolder gives constraint assembly and trajectory sampling a shared
// view of the spline structures layered over the variable blocks. The
// splines read the blocks live, so the holder stays valid across solver
// iterations.
type SplineHolder struct {
	BaseLinear  *spline.NodeSpline
	BaseAngular *spline.AngularStateConverter
	EEMotion    []*spline.PhaseSpline
	EEForce     []*spline.PhaseSpline
	// Durations holds each leg's duration block; entries are present even
	// when durations are fixed, in which case no variable block is
	// registered for them.
	Durations []*spline.PhaseDurations
	Load      *constraint.LoadFractions
}

// Factory assembles one optimization problem from parameters, a robot model
// and terrain, plus the boundary states. Build is deterministic: the same
// inputs produce the same block order, row order and initialization.
type Factory struct {
	Params  Parameters
	Model   robot.Model
	Terrain terrain.Terrain

	Initial     BaseState
	Goal        BaseState
	InitialFeet []r3.Vector
}

// Build assembles the variable container, constraint composite and cost
// composite into a solver-ready problem.
func (f *Factory) Build() (*nlp.Problem, *SplineHolder, error) {
	if err := f.Params.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid parameters")
	}
	legs := f.Model.Kinematic.NumLegs()
	if len(f.Params.LegPhases) != legs {
		return nil, nil, errors.Errorf("%d phase schedules for a %d-legged robot", len(f.Params.LegPhases), legs)
	}
	if len(f.InitialFeet) != 0 && len(f.InitialFeet) != legs {
		return nil, nil, errors.Errorf("%d initial footholds for a %d-legged robot", len(f.InitialFeet), legs)
	}

	vars := nlp.NewVariableContainer()
	holder := &SplineHolder{}

	baseLin, baseAng, err := f.buildBase(vars)
	if err != nil {
		return nil, nil, err
	}
	holder.BaseLinear = baseLin
	holder.BaseAngular = baseAng

	for leg := 0; leg < legs; leg++ {
		motion, force, durs, err := f.buildLeg(vars, leg)
		if err != nil {
			return nil, nil, err
		}
		holder.EEMotion = append(holder.EEMotion, motion)
		holder.EEForce = append(holder.EEForce, force)
		holder.Durations = append(holder.Durations, durs)
	}

	samples := nlp.NewTimeDiscretization(f.Params.TotalTime, f.Params.Dt, 1).Samples()
	holder.Load = constraint.NewLoadFractions(blockLoad, samples, legs)
	if err := vars.AddBlock(holder.Load); err != nil {
		return nil, nil, err
	}

	constraints, err := f.buildConstraints(vars, holder)
	if err != nil {
		return nil, nil, err
	}
	costs, err := f.buildCosts(vars, holder)
	if err != nil {
		return nil, nil, err
	}
	return nlp.NewProblem(vars, constraints, costs), holder, nil
}

// buildBase creates the base linear and angular splines with their boundary
// nodes pinned to the initial and goal states.
func (f *Factory) buildBase(vars *nlp.VariableContainer) (*spline.NodeSpline, *spline.AngularStateConverter, error) {
	durs := spline.UniformDurations(f.Params.BaseSegments, f.Params.TotalTime)
	last := f.Params.BaseSegments

	linNodes := spline.NewNodes(blockBaseLin, last+1)
	linNodes.InitializeTowards(f.Initial.Pos, f.Goal.Pos)
	linNodes.PinPos(0, f.Initial.Pos)
	linNodes.PinVel(0, r3.Vector{})
	linNodes.PinPos(last, f.Goal.Pos)
	linNodes.PinVel(last, r3.Vector{})
	if err := vars.AddBlock(linNodes); err != nil {
		return nil, nil, err
	}
	baseLin, err := spline.NewNodeSpline(linNodes, durs)
	if err != nil {
		return nil, nil, err
	}

	initEuler := spatialmath.Unique(f.Initial.Euler).Vector()
	goalEuler := spatialmath.Unique(f.Goal.Euler).Vector()
	angNodes := spline.NewNodes(blockBaseAng, last+1)
	angNodes.InitializeTowards(initEuler, goalEuler)
	angNodes.PinPos(0, initEuler)
	angNodes.PinVel(0, r3.Vector{})
	angNodes.PinPos(last, goalEuler)
	angNodes.PinVel(last, r3.Vector{})
	if err := vars.AddBlock(angNodes); err != nil {
		return nil, nil, err
	}
	angSpline, err := spline.NewNodeSpline(angNodes, durs)
	if err != nil {
		return nil, nil, err
	}
	return baseLin, spline.NewAngularStateConverter(angSpline), nil
}

// buildLeg creates one leg's motion and force splines over a shared
// duration source.
func (f *Factory) buildLeg(vars *nlp.VariableContainer, leg int) (motion, force *spline.PhaseSpline, durs *spline.PhaseDurations, err error) {
	phases := f.Params.LegPhases[leg]
	segDurs := spline.PhaseSegmentDurations(phases)
	minDur := f.Params.MinPhaseDuration
	if !f.Params.OptimizeDurations {
		// the block never enters the container, so the lower bound only has
		// to satisfy construction
		minDur = 1e-6
	}
	durs, err = spline.NewPhaseDurations(blockEEDurations(leg), segDurs, f.Params.OptimizeDurations, minDur)
	if err != nil {
		return nil, nil, nil, err
	}

	motion, err = spline.NewPhaseSpline(blockEEMotion(leg), phases, spline.Motion, durs)
	if err != nil {
		return nil, nil, nil, err
	}
	start := f.initialFoothold(leg)
	goal := start.Add(f.Goal.Pos.Sub(f.Initial.Pos))
	goal.Z = f.Terrain.Height(goal.X, goal.Y)
	motion.Nodes().InitializeTowards(start, goal)
	motion.Nodes().PinPos(0, start)
	if err = vars.AddBlock(motion.Nodes()); err != nil {
		return nil, nil, nil, err
	}

	force, err = spline.NewPhaseSpline(blockEEForce(leg), phases, spline.Force, durs)
	if err != nil {
		return nil, nil, nil, err
	}
	share := r3.Vector{Z: f.Model.Dynamic.Mass() * gravity / float64(f.Model.Kinematic.NumLegs())}
	for i := 0; i < force.Nodes().Count(); i++ {
		force.Nodes().SetNode(i, share, r3.Vector{})
	}
	for _, i := range force.ConstantNodes() {
		force.Nodes().SetNode(i, r3.Vector{}, r3.Vector{})
	}
	if err = vars.AddBlock(force.Nodes()); err != nil {
		return nil, nil, nil, err
	}

	if f.Params.OptimizeDurations {
		if err = vars.AddBlock(durs); err != nil {
			return nil, nil, nil, err
		}
	}
	return motion, force, durs, nil
}

// initialFoothold returns the leg's starting foot position, either supplied
// or derived from the base pose and the nominal stance, dropped to the
// terrain surface.
func (f *Factory) initialFoothold(leg int) r3.Vector {
	if len(f.InitialFeet) > 0 {
		return f.InitialFeet[leg]
	}
	nominal := f.Model.Kinematic.NominalStanceInBase()[leg]
	rot := spatialmath.Unique(f.Initial.Euler).RotationMatrix()
	world := r3.Vector{
		X: rot.At(0, 0)*nominal.X + rot.At(0, 1)*nominal.Y + rot.At(0, 2)*nominal.Z,
		Y: rot.At(1, 0)*nominal.X + rot.At(1, 1)*nominal.Y + rot.At(1, 2)*nominal.Z,
		Z: rot.At(2, 0)*nominal.X + rot.At(2, 1)*nominal.Y + rot.At(2, 2)*nominal.Z,
	}
	p := f.Initial.Pos.Add(world)
	p.Z = f.Terrain.Height(p.X, p.Y)
	return p
}

// buildConstraints assembles the constraint composite in the order listed
// in the parameters. The total-duration equality is appended automatically
// whenever durations are optimized and the list omits it.
func (f *Factory) buildConstraints(vars *nlp.VariableContainer, h *SplineHolder) (*nlp.Composite, error) {
	names := f.Params.Constraints
	if f.Params.OptimizeDurations {
		found := false
		for _, n := range names {
			if n == TotalDuration {
				found = true
			}
		}
		if !found {
			names = append(append([]ConstraintName{}, names...), TotalDuration)
		}
	}

	comp := nlp.NewComposite("constraints", vars)
	for _, name := range names {
		switch name {
		case RangeOfMotion:
			for leg, motion := range h.EEMotion {
				disc := nlp.NewTimeDiscretization(f.Params.TotalTime, f.Params.Dt, spline.Dim)
				comp.Add(constraint.NewRangeOfMotionBox(
					fmt.Sprintf("range-of-motion-%d", leg),
					disc, h.BaseLinear, h.BaseAngular, motion, f.Model.Kinematic, leg,
				))
			}
		case Convexity:
			comp.Add(constraint.NewConvexity(h.Load))
		case TerrainContact:
			for leg, motion := range h.EEMotion {
				disc := nlp.NewTimeDiscretization(f.Params.TotalTime, f.Params.Dt, 1)
				comp.Add(constraint.NewTerrainContact(
					fmt.Sprintf("terrain-contact-%d", leg),
					disc, motion, f.Terrain,
				))
			}
		case TotalDuration:
			if !f.Params.OptimizeDurations {
				continue
			}
			for _, durs := range h.Durations {
				comp.Add(constraint.NewTotalDuration(durs, f.Params.TotalTime))
			}
		default:
			return nil, errors.Errorf("unknown constraint %q", name)
		}
	}
	return comp, nil
}

// buildCosts assembles the cost composite. Cost families are added in name
// order so two builds of the same parameters produce identical problems.
func (f *Factory) buildCosts(vars *nlp.VariableContainer, h *SplineHolder) (*nlp.Composite, error) {
	comp := nlp.NewCostComposite("costs", vars)
	names := make([]CostName, 0, len(f.Params.CostWeights))
	for name := range f.Params.CostWeights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		weight := f.Params.CostWeights[name]
		switch name {
		case BaseMotionCost:
			nodes := h.BaseLinear.Nodes()
			m := mat.NewSymDense(nodes.Size(), nil)
			for i := 0; i < nodes.Count(); i++ {
				for dim := 0; dim < spline.Dim; dim++ {
					idx := spline.Index(i, spline.Vel, dim)
					m.SetSym(idx, idx, 1)
				}
			}
			c, err := cost.NewQuadratic("base-motion-cost", nodes, m, nil, weight)
			if err != nil {
				return nil, err
			}
			comp.Add(c)
		case ForcesCost:
			for leg, force := range h.EEForce {
				nodes := force.Nodes()
				m := mat.NewSymDense(nodes.Size(), nil)
				for i := 0; i < nodes.Count(); i++ {
					for dim := 0; dim < spline.Dim; dim++ {
						idx := spline.Index(i, spline.Pos, dim)
						m.SetSym(idx, idx, 1)
					}
				}
				c, err := cost.NewQuadratic(fmt.Sprintf("force-cost-%d", leg), nodes, m, nil, weight)
				if err != nil {
					return nil, err
				}
				comp.Add(c)
			}
		default:
			return nil, errors.Errorf("unknown cost %q", name)
		}
	}
	return comp, nil
}
