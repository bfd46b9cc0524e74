package main

import (
	"math"
)

// SizedGrid is a GridMap that can report its extent.
type SizedGrid interface {
	GridMap
	Dims() (rows, cols int)
}

// FrontierFinder is a reference FrontierSource. A frontier cell is known free (raw risk below
// FreeThreshold), traversable in the expanded layer, and touches at least one unknown cell.
// Frontier cells are grouped with 8-connectivity; groups smaller than MinClusterSize are
// ignored. Each group yields one goal, the member cell nearest the group centroid.
type FrontierFinder struct {
	MinClusterSize          int
	FreeThreshold           float64
	TraversabilityThreshold float64
}

// NewFrontierFinder returns a finder configured from cfg.
func NewFrontierFinder(cfg *PlannerConfig) *FrontierFinder {
	return &FrontierFinder{
		MinClusterSize:          cfg.GetFrontierMinCells(),
		FreeThreshold:           UnknownRisk,
		TraversabilityThreshold: cfg.GetTraversabilityThreshold(),
	}
}

// FindFrontiers implements FrontierSource. Grids that cannot report their extent yield nothing.
func (f *FrontierFinder) FindFrontiers(grid GridMap, robot Cell) []GoalCandidate {
	sized, ok := grid.(SizedGrid)
	if !ok {
		opsf("frontier search needs a sized grid, got %T", grid)
		return nil
	}

	rows, cols := sized.Dims()
	isFrontier := make([]bool, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			isFrontier[r*cols+c] = f.frontierCell(sized, Cell{Row: r, Col: c})
		}
	}

	seen := make([]bool, rows*cols)
	var candidates []GoalCandidate
	for i, fr := range isFrontier {
		if !fr || seen[i] {
			continue
		}
		cluster := []Cell{{Row: i / cols, Col: i % cols}}
		seen[i] = true
		for qi := 0; qi < len(cluster); qi++ {
			u := cluster[qi]
			for _, d := range conn8Offsets {
				v := Cell{Row: u.Row + d[0], Col: u.Col + d[1]}
				if !sized.InBounds(v) {
					continue
				}
				vi := v.Row*cols + v.Col
				if isFrontier[vi] && !seen[vi] {
					seen[vi] = true
					cluster = append(cluster, v)
				}
			}
		}
		if len(cluster) < f.MinClusterSize {
			tracef("dropping frontier cluster of %d cells at %v", len(cluster), cluster[0])
			continue
		}
		goal := clusterGoal(cluster)
		candidates = append(candidates, GoalCandidate{Row: float64(goal.Row), Col: float64(goal.Col)})
	}

	diagf("%d frontier clusters found from %v", len(candidates), robot)
	return orderByDistance(candidates, robot)
}

func (f *FrontierFinder) frontierCell(grid GridMap, c Cell) bool {
	raw, ok := grid.Risk(RawGrid, c)
	if !ok || raw >= f.FreeThreshold {
		return false
	}
	if exp, ok := grid.Risk(ExpandedGrid, c); !ok || exp >= f.TraversabilityThreshold {
		return false
	}
	for _, d := range conn8Offsets {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if !grid.InBounds(n) {
			continue
		}
		if risk, ok := grid.Risk(RawGrid, n); !ok || risk == UnknownRisk {
			return true
		}
	}
	return false
}

// clusterGoal picks the member cell closest to the cluster centroid.
func clusterGoal(cluster []Cell) Cell {
	var sumRow, sumCol float64
	for _, c := range cluster {
		sumRow += float64(c.Row)
		sumCol += float64(c.Col)
	}
	n := float64(len(cluster))
	centroidRow, centroidCol := sumRow/n, sumCol/n

	best := cluster[0]
	bestDist := math.Inf(1)
	for _, c := range cluster {
		d := math.Hypot(float64(c.Row)-centroidRow, float64(c.Col)-centroidCol)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
