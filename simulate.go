package main

import (
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

const (
	simRows        = 40
	simCols        = 40
	simSensorRange = 6.0 // cells
	simTimeStep    = 0.2 // seconds per control cycle
	simWallRisk    = 1.0
)

// simMotion records the command most recently sent to the simulated robot.
type simMotion struct {
	last  Command
	count int
}

func (m *simMotion) Send(cmd Command) error {
	m.last = cmd
	m.count++
	return nil
}

// simWorld pairs the hidden truth with the map the robot has built so far.
type simWorld struct {
	truth *OccupancyGrid
	known *OccupancyGrid
	frame MapFrame
}

// newSimWorld builds a walled room. With obstacles it rasterises them into the room,
// otherwise it places a single block in the middle.
func newSimWorld(cellSize float64, obstacles []orb.Polygon) (*simWorld, error) {
	truth, err := NewOccupancyGrid(simRows, simCols)
	if err != nil {
		return nil, err
	}
	known, err := NewOccupancyGrid(simRows, simCols)
	if err != nil {
		return nil, err
	}
	frame := MapFrame{XMin: 0, YMax: simRows * cellSize, CellSize: cellSize}

	for r := 0; r < simRows; r++ {
		for c := 0; c < simCols; c++ {
			risk := 0.0
			if r == 0 || c == 0 || r == simRows-1 || c == simCols-1 {
				risk = simWallRisk
			}
			truth.SetRisk(RawGrid, Cell{Row: r, Col: c}, risk)
		}
	}

	if len(obstacles) > 0 {
		n := RasterizeObstacles(truth, frame, obstacles, simWallRisk)
		log.Printf("   Rasterised %d obstacles into %d cells\n", len(obstacles), n)
	} else {
		for r := 16; r < 24; r++ {
			for c := 18; c < 22; c++ {
				truth.SetRisk(RawGrid, Cell{Row: r, Col: c}, simWallRisk)
			}
		}
	}
	truth.Inflate(0)
	return &simWorld{truth: truth, known: known, frame: frame}, nil
}

// sense copies truth into the known map for every cell within range of the robot.
func (w *simWorld) sense(robot Pose, radius int) {
	for r := 0; r < simRows; r++ {
		for c := 0; c < simCols; c++ {
			if math.Hypot(float64(r)+0.5-robot.Row, float64(c)+0.5-robot.Col) > simSensorRange {
				continue
			}
			cell := Cell{Row: r, Col: c}
			risk, _ := w.truth.Risk(RawGrid, cell)
			w.known.SetRisk(RawGrid, cell, risk)
		}
	}
	w.known.Inflate(radius)
}

func (w *simWorld) knownFraction() float64 {
	known := 0
	for r := 0; r < simRows; r++ {
		for c := 0; c < simCols; c++ {
			if _, ok := w.known.Risk(RawGrid, Cell{Row: r, Col: c}); ok {
				known++
			}
		}
	}
	return float64(known) / float64(simRows*simCols)
}

// integrate advances a unicycle model by dt under cmd.
func integrate(p Pose, cmd Command, dt float64) Pose {
	sin, cos := math.Sincos(p.Heading)
	p.Row -= cmd.Linear * sin * dt
	p.Col += cmd.Linear * cos * dt
	p.Heading = normalizeAngle(p.Heading + cmd.Angular*dt)
	return p
}

type simSummary struct {
	RunID         string
	Cycles        int
	Replans       int
	Commands      int
	State         NavState
	Pose          Pose
	KnownFraction float64
}

// runSimulation explores a synthetic world with the Navigator until no frontier is left,
// the robot stalls, or maxCycles is reached.
func runSimulation(cfg *PlannerConfig, obstacleDir string, maxCycles int) (simSummary, error) {
	summary := simSummary{RunID: uuid.NewString()}

	var obstacles []orb.Polygon
	if obstacleDir != "" {
		loaded, err := LoadObstacles(obstacleDir)
		if err != nil {
			return summary, fmt.Errorf("failed to load obstacles: %w", err)
		}
		obstacles = loaded
	}

	world, err := newSimWorld(cfg.GetCellSize(), obstacles)
	if err != nil {
		return summary, err
	}

	motion := &simMotion{}
	nav, err := NewNavigator(world.known, NewFrontierFinder(cfg), NewPurePursuit(cfg, motion), motion, cfg)
	if err != nil {
		return summary, err
	}

	log.Printf("🤖 Simulation %s: %dx%d world, sensor range %.0f cells\n", summary.RunID, simRows, simCols, simSensorRange)

	pose := Pose{Row: 5.5, Col: 5.5}
	radius := cfg.GetInflationRadiusCells()
	for summary.Cycles < maxCycles {
		summary.Cycles++
		world.sense(pose, radius)

		res, err := nav.Step(pose)
		if err != nil {
			return summary, err
		}
		if res.Replanned {
			summary.Replans++
		}
		if res.State == StateStalled {
			log.Printf("   Stalled at %v: %v\n", pose.Cell(), res.Err)
			break
		}

		cmd := motion.last
		if res.Path == nil {
			cmd = StopCommand
		}
		pose = integrate(pose, cmd, simTimeStep)

		if risk, ok := world.truth.Risk(RawGrid, pose.Cell()); !ok || risk >= simWallRisk {
			log.Printf("   💥 Robot entered obstacle cell %v\n", pose.Cell())
			break
		}
	}

	summary.State = nav.State()
	summary.Commands = motion.count
	summary.Pose = pose
	summary.KnownFraction = world.knownFraction()
	return summary, nil
}
