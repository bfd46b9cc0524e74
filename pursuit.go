package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PurePursuit is a reference PathFollower. It steers toward a carrot point one lookahead
// distance along the path, using the arc curvature 2y/L² in the vehicle frame.
type PurePursuit struct {
	LinearSpeed    float64
	TurnRate       float64 // angular speed used when turning in place
	AlignTolerance float64 // radians
	GoalTolerance  float64 // cells; the path is done once the goal is this close
	Sink           MotionSink
}

// NewPurePursuit returns a follower configured from cfg that turns in place through sink.
func NewPurePursuit(cfg *PlannerConfig, sink MotionSink) *PurePursuit {
	return &PurePursuit{
		LinearSpeed:    cfg.GetLinearSpeed(),
		TurnRate:       cfg.GetTurnRate(),
		AlignTolerance: cfg.GetAlignToleranceRad(),
		GoalTolerance:  0.5,
		Sink:           sink,
	}
}

// carrot returns the first path point at least lookahead away, searching forward from the
// point nearest the robot. Near the end of the path the goal itself is the carrot until the
// robot is within GoalTolerance.
func (pp *PurePursuit) carrot(path Path, robot orb.Point, lookahead float64) (orb.Point, bool) {
	if len(path) == 0 {
		return orb.Point{}, false
	}
	pts := make([]orb.Point, len(path))
	for i, c := range path.Reversed() {
		pts[i] = cellPoint(c)
	}

	nearest, nearestDist := 0, math.Inf(1)
	for i, p := range pts {
		if d := planar.Distance(robot, p); d < nearestDist {
			nearest, nearestDist = i, d
		}
	}
	for _, p := range pts[nearest:] {
		if planar.Distance(robot, p) >= lookahead {
			return p, true
		}
	}

	goal := pts[len(pts)-1]
	if planar.Distance(robot, goal) > pp.GoalTolerance {
		return goal, true
	}
	return orb.Point{}, false
}

// headingError is the signed angle from the robot heading to the carrot bearing.
func headingError(robot Pose, target orb.Point) float64 {
	pos := robot.Point()
	bearing := math.Atan2(target.Y()-pos.Y(), target.X()-pos.X())
	return normalizeAngle(bearing - robot.Heading)
}

// InitializeOrientation turns the robot in place toward the carrot of a fresh path.
func (pp *PurePursuit) InitializeOrientation(path Path, lookahead float64, robot Pose) {
	target, ok := pp.carrot(path, robot.Point(), lookahead)
	if !ok || pp.Sink == nil {
		return
	}
	errAngle := headingError(robot, target)
	if math.Abs(errAngle) <= pp.AlignTolerance {
		return
	}
	turn := Command{Angular: math.Copysign(pp.TurnRate, errAngle)}
	if err := pp.Sink.Send(turn); err != nil {
		opsf("turn-in-place command failed: %v", err)
	}
}

// IsAligned reports whether the robot faces the carrot within AlignTolerance. A finished path
// counts as aligned so that NextCommand can report it.
func (pp *PurePursuit) IsAligned(path Path, lookahead float64, robot Pose) bool {
	target, ok := pp.carrot(path, robot.Point(), lookahead)
	if !ok {
		return true
	}
	return math.Abs(headingError(robot, target)) <= pp.AlignTolerance
}

// NextCommand returns the pursuit command, or false once the goal has been reached.
func (pp *PurePursuit) NextCommand(path Path, robot Pose, lookahead float64) (Command, bool) {
	target, ok := pp.carrot(path, robot.Point(), lookahead)
	if !ok {
		return Command{}, false
	}
	x, y := toVehicleFrame(robot, target)
	curvature := 0.0
	if l2 := x*x + y*y; l2 > 0 {
		curvature = 2 * y / l2
	}
	return Command{Angular: curvature * pp.LinearSpeed, Linear: pp.LinearSpeed}, true
}

// toVehicleFrame expresses target relative to the robot: x forward, y to the left.
func toVehicleFrame(robot Pose, target orb.Point) (x, y float64) {
	pos := robot.Point()
	dx, dy := target.X()-pos.X(), target.Y()-pos.Y()
	sin, cos := math.Sincos(robot.Heading)
	return cos*dx + sin*dy, -sin*dx + cos*dy
}
