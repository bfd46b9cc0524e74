package main

import (
	"errors"
	"fmt"
	"math"
)

// NavState is the navigation loop state.
type NavState int

const (
	StateFollowing NavState = iota + 1
	StateReplanning
	StateStalled
)

func (s NavState) String() string {
	switch s {
	case StateFollowing:
		return "FOLLOWING"
	case StateReplanning:
		return "REPLANNING"
	case StateStalled:
		return "STALLED"
	default:
		return fmt.Sprintf("NavState(%d)", int(s))
	}
}

// Command is a velocity command for the motion layer.
type Command struct {
	Angular float64 `json:"angular"`
	Linear  float64 `json:"linear"`
}

// StopCommand halts the robot.
var StopCommand = Command{}

// GoalCandidate is a frontier-derived goal in fractional grid coordinates.
type GoalCandidate struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Cell floors the candidate onto the grid.
func (g GoalCandidate) Cell() Cell {
	return Cell{Row: int(math.Floor(g.Row)), Col: int(math.Floor(g.Col))}
}

// FrontierSource lists exploration goals, best first. An empty list means nothing is left.
type FrontierSource interface {
	FindFrontiers(grid GridMap, robot Cell) []GoalCandidate
}

// PathFollower turns a committed path into motion commands.
type PathFollower interface {
	InitializeOrientation(path Path, lookahead float64, robot Pose)
	IsAligned(path Path, lookahead float64, robot Pose) bool
	NextCommand(path Path, robot Pose, lookahead float64) (Command, bool)
}

// MotionSink delivers commands to the robot.
type MotionSink interface {
	Send(cmd Command) error
}

// StepResult describes what one control cycle did.
type StepResult struct {
	State     NavState
	Replanned bool
	Goal      Cell
	Path      Path
	Verdict   Verdict  // validation of the previously committed path
	Command   *Command // command sent this cycle, nil if none
	Aligned   bool
	Err       error // recoverable planning outcome (no frontier, no path); never fatal
}

// Navigator drives one robot through FOLLOWING, REPLANNING and STALLED, one Step per control
// cycle. It owns the committed path; the grid is shared with the mapping collaborator and
// only written through the validator's reset.
type Navigator struct {
	grid      GridMap
	frontiers FrontierSource
	follower  PathFollower
	motion    MotionSink

	search    SearchOptions
	validator PathValidator
	lookahead float64

	state NavState
	path  Path
	goal  Cell
}

// NewNavigator wires the loop to its collaborators. A nil cfg uses defaults.
func NewNavigator(grid GridMap, frontiers FrontierSource, follower PathFollower, motion MotionSink, cfg *PlannerConfig) (*Navigator, error) {
	if grid == nil || frontiers == nil || follower == nil || motion == nil {
		return nil, errors.New("navigator: grid, frontier source, follower and motion sink are required")
	}
	if cfg == nil {
		cfg = EmptyPlannerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("navigator: %w", err)
	}
	return &Navigator{
		grid:      grid,
		frontiers: frontiers,
		follower:  follower,
		motion:    motion,
		search:    cfg.SearchOptions(),
		validator: cfg.Validator(),
		lookahead: cfg.GetLookaheadCells(),
		state:     StateReplanning,
	}, nil
}

// State returns the state reached by the last Step.
func (n *Navigator) State() NavState { return n.state }

// Path returns the committed path (goal to start), nil if none.
func (n *Navigator) Path() Path { return n.path }

// Goal returns the goal of the committed path.
func (n *Navigator) Goal() (Cell, bool) { return n.goal, n.path != nil }

// Step runs one control cycle for the robot at pose. The returned error is reserved for
// motion transport failures; planning outcomes are reported in StepResult.Err.
func (n *Navigator) Step(robot Pose) (StepResult, error) {
	var res StepResult

	if n.path != nil {
		res.Verdict = n.validator.Check(n.grid, n.path)
		if res.Verdict.Unsafe {
			diagf("committed path to %v rejected: %v", n.goal, res.Verdict.Err())
			n.path = nil
		}
	}

	if n.path == nil {
		if err := n.replan(robot, &res); err != nil {
			return n.finish(res), err
		}
		if n.path == nil {
			return n.finish(res), nil
		}
	}

	res.Aligned = n.follower.IsAligned(n.path, n.lookahead, robot)
	if !res.Aligned {
		return n.finish(res), nil
	}

	cmd, ok := n.follower.NextCommand(n.path, robot, n.lookahead)
	if !ok {
		diagf("path to %v consumed", n.goal)
		n.path = nil
		n.state = StateReplanning
		return n.finish(res), nil
	}
	if err := n.motion.Send(cmd); err != nil {
		opsf("motion command failed: %v", err)
		return n.finish(res), fmt.Errorf("navigator: send command: %w", err)
	}
	res.Command = &cmd
	return n.finish(res), nil
}

func (n *Navigator) finish(res StepResult) StepResult {
	res.State = n.state
	res.Path = n.path
	res.Goal = n.goal
	return res
}

// replan stops the robot and searches toward each frontier candidate in order until one
// yields a path. With no candidates, or none reachable, the loop stalls.
func (n *Navigator) replan(robot Pose, res *StepResult) error {
	n.state = StateReplanning
	res.Replanned = true

	if err := n.motion.Send(StopCommand); err != nil {
		opsf("stop command failed: %v", err)
		return fmt.Errorf("navigator: send stop: %w", err)
	}

	start := robot.Cell()
	candidates := n.frontiers.FindFrontiers(n.grid, start)
	if len(candidates) == 0 {
		opsf("no frontier left to visit from %v", start)
		n.state = StateStalled
		res.Err = ErrNoFrontiers
		return nil
	}

	var lastErr error
	for _, candidate := range candidates {
		goal := candidate.Cell()
		result, err := Search(n.grid, start, goal, n.search)
		if err != nil {
			diagf("no route to frontier %v: %v", goal, err)
			lastErr = err
			continue
		}
		path, err := result.Path()
		if err != nil {
			diagf("reconstruction to frontier %v failed: %v", goal, err)
			lastErr = err
			continue
		}

		cost, _ := result.Cost()
		diagf("new path to %v: %d cells, cost %.2f, %d expansions", goal, len(path), cost, result.Expansions)
		n.path = path
		n.goal = goal
		n.follower.InitializeOrientation(path, n.lookahead, robot)
		n.state = StateFollowing
		return nil
	}

	opsf("stalled at %v: none of %d frontiers reachable", start, len(candidates))
	n.state = StateStalled
	res.Err = lastErr
	return nil
}
