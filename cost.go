package main

import (
	"math"
)

// RiskBand maps every risk at or above MinRisk (and below the next band up) to a
// step-cost multiplier.
type RiskBand struct {
	MinRisk    float64 `json:"min_risk"`
	Multiplier float64 `json:"multiplier"`
}

// DefaultRiskBands is the step function used when no table is configured.
// Multipliers stay finite: forbidding a cell is the neighbour filter's job.
func DefaultRiskBands() []RiskBand {
	return []RiskBand{
		{MinRisk: 0.8, Multiplier: 1000},
		{MinRisk: 0.5, Multiplier: 500},
		{MinRisk: 0.1, Multiplier: 100},
		{MinRisk: 0, Multiplier: 1},
	}
}

// CostModel prices a single grid step from the destination cell's risk band.
// Bands must be ordered by descending MinRisk; the last band catches everything else,
// including undefined risk.
type CostModel struct {
	Bands []RiskBand
}

// Multiplier returns the band multiplier for a risk value.
func (m CostModel) Multiplier(risk float64, defined bool) float64 {
	bands := m.Bands
	if len(bands) == 0 {
		bands = DefaultRiskBands()
	}
	if defined {
		for _, b := range bands {
			if risk >= b.MinRisk {
				return b.Multiplier
			}
		}
	}
	return bands[len(bands)-1].Multiplier
}

// EdgeCost is the cost of stepping from one cell to an adjacent one: the destination's
// expanded-grid band multiplier times the Euclidean step length.
func (m CostModel) EdgeCost(grid GridMap, from, to Cell) float64 {
	risk, ok := grid.Risk(ExpandedGrid, to)
	return m.Multiplier(risk, ok) * cellDistance(from, to)
}

// Heuristic is the Manhattan distance between two cells. With diagonal moves allowed it
// can overestimate the true remaining cost, so A* results are not guaranteed optimal on
// diagonal-heavy routes.
func Heuristic(a, b Cell) float64 {
	return math.Abs(float64(a.Row-b.Row)) + math.Abs(float64(a.Col-b.Col))
}
