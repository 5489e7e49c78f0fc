// Package main is the trajopt demo command: it plans a quadruped gait over
// flat ground and writes the sampled trajectory as JSON.
package main

import (
	"encoding/json"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/trajopt"
	"go.viam.com/trajopt/robot"
	"go.viam.com/trajopt/solver"
	"go.viam.com/trajopt/terrain"
)

const (
	flagTotalTime  = "total-time"
	flagGoalX      = "goal-x"
	flagGoalY      = "goal-y"
	flagSampleDt   = "sample-dt"
	flagOutput     = "output"
	flagOptimizeTs = "optimize-durations"
	flagDebug      = "debug"
)

func main() {
	app := &cli.App{
		Name:  "trajopt",
		Usage: "plan a quadruped trajectory and dump the samples",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  flagTotalTime,
				Value: 2.4,
				Usage: "trajectory horizon in seconds",
			},
			&cli.Float64Flag{
				Name:  flagGoalX,
				Value: 0.5,
				Usage: "goal base displacement along x",
			},
			&cli.Float64Flag{
				Name:  flagGoalY,
				Value: 0,
				Usage: "goal base displacement along y",
			},
			&cli.Float64Flag{
				Name:  flagSampleDt,
				Value: 0.05,
				Usage: "output sample interval in seconds",
			},
			&cli.StringFlag{
				Name:  flagOutput,
				Value: "",
				Usage: "output file path, stdout when empty",
			},
			&cli.BoolFlag{
				Name:  flagOptimizeTs,
				Usage: "let the solver adapt phase durations",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: planAction,
	}
	if err := app.Run(os.Args); err != nil {
		golog.Global().Fatal(err)
	}
}

func planAction(c *cli.Context) error {
	logger := golog.NewLogger("trajopt")
	if c.Bool(flagDebug) {
		logger = golog.NewDebugLogger("trajopt")
	}

	quad := robot.NewQuadruped()
	model := robot.Model{Kinematic: quad, Dynamic: quad, IK: quad}
	ground := terrain.NewFlatGround(0.5)

	to := trajopt.New(logger, model, ground)
	standing := 0.58
	to.SetBoundaryStates(
		trajopt.BaseState{Pos: r3.Vector{Z: standing}},
		trajopt.BaseState{Pos: r3.Vector{
			X: c.Float64(flagGoalX),
			Y: c.Float64(flagGoalY),
			Z: standing,
		}},
	)

	params := trajopt.DefaultParameters(c.Float64(flagTotalTime), quad.NumLegs())
	params.OptimizeDurations = c.Bool(flagOptimizeTs)
	if err := params.Validate(); err != nil {
		return err
	}
	to.SetParameters(params)

	if err := to.BuildProblem(); err != nil {
		return err
	}
	result, err := to.Solve(solver.NewSLSQP(logger))
	if err != nil {
		return err
	}
	logger.Infow("solve finished",
		"converged", result.Converged,
		"cost", result.Cost,
		"iterations", result.Iterations,
	)

	states, err := to.Trajectory(c.Float64(flagSampleDt))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding trajectory")
	}
	out = append(out, '\n')

	if path := c.String(flagOutput); path != "" {
		//nolint:gosec
		return os.WriteFile(path, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
