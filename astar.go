package main

import (
	"fmt"
)

// SearchOptions tunes a single A* search.
type SearchOptions struct {
	TraversabilityThreshold float64   // expanded risk at or above this blocks a cell
	HeuristicWeight         float64   // scales the Manhattan estimate
	MaxExpansions           int       // 0 means unlimited
	Costs                   CostModel // step pricing
}

// DefaultSearchOptions returns the planner defaults: threshold 0.5, weight 1, default bands,
// no expansion budget.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TraversabilityThreshold: 0.5,
		HeuristicWeight:         1.0,
		Costs:                   CostModel{Bands: DefaultRiskBands()},
	}
}

// Predecessor records which cell a node was reached from. Valid is false only for the
// search start, which has no predecessor.
type Predecessor struct {
	Cell  Cell
	Valid bool
}

// SearchResult holds the maps built by one search. They belong to the caller once
// Search returns and are never reused by later searches.
type SearchResult struct {
	Start, Goal Cell
	CameFrom    map[Cell]Predecessor
	CostSoFar   map[Cell]float64
	Expansions  int
}

// Path reconstructs the goal-to-start path from the result.
func (r *SearchResult) Path() (Path, error) {
	return ReconstructPath(r.CameFrom, r.Start, r.Goal)
}

// Cost returns the accumulated cost recorded for the goal.
func (r *SearchResult) Cost() (float64, bool) {
	c, ok := r.CostSoFar[r.Goal]
	return c, ok
}

// Search runs A* from start to goal over grid.
//
// Popped cells are not closed: a cell may be expanded again when a cheaper route to it is
// found later. The search stops as soon as the goal is popped.
//
// Errors:
//   - ErrInvalidStartOrGoal if either cell is outside the grid.
//   - ErrNoPathFound (wrapped) if the queue runs dry first. The partial result is returned.
//   - ErrSearchBudgetExceeded (wrapped) if MaxExpansions is reached. The partial result is returned.
func Search(grid GridMap, start, goal Cell, opts SearchOptions) (*SearchResult, error) {
	if !grid.InBounds(start) || !grid.InBounds(goal) {
		return nil, fmt.Errorf("%w: start=%v goal=%v", ErrInvalidStartOrGoal, start, goal)
	}

	res := &SearchResult{
		Start:     start,
		Goal:      goal,
		CameFrom:  map[Cell]Predecessor{start: {}},
		CostSoFar: map[Cell]float64{start: 0},
	}

	frontier := newFrontierQueue()
	frontier.Put(start, 0)

	for !frontier.Empty() {
		current := frontier.Get()
		if current == goal {
			tracef("goal %v reached after %d expansions", goal, res.Expansions)
			return res, nil
		}

		if opts.MaxExpansions > 0 && res.Expansions >= opts.MaxExpansions {
			return res, fmt.Errorf("%w: %d expansions toward %v", ErrSearchBudgetExceeded, res.Expansions, goal)
		}
		res.Expansions++

		for _, next := range Neighbours(grid, current, opts.TraversabilityThreshold) {
			newCost := res.CostSoFar[current] + opts.Costs.EdgeCost(grid, current, next)
			if old, seen := res.CostSoFar[next]; seen && newCost >= old {
				continue
			}
			res.CostSoFar[next] = newCost
			res.CameFrom[next] = Predecessor{Cell: current, Valid: true}
			frontier.Put(next, newCost+opts.HeuristicWeight*Heuristic(goal, next))
		}
	}

	return res, fmt.Errorf("%w: %v to %v after %d expansions", ErrNoPathFound, start, goal, res.Expansions)
}
