package main

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPathFound indicates the search exhausted its queue without reaching the goal.
	ErrNoPathFound = errors.New("planner: no path between start and goal")
	// ErrInvalidStartOrGoal indicates the start or goal cell lies outside the grid.
	ErrInvalidStartOrGoal = errors.New("planner: start or goal outside grid")
	// ErrSearchBudgetExceeded indicates the search hit its expansion budget.
	ErrSearchBudgetExceeded = errors.New("planner: search budget exceeded")
	// ErrMapInconsistent indicates a committed path crosses a cell with undefined risk.
	ErrMapInconsistent = errors.New("planner: undefined risk on path")
	// ErrPathUnsafe indicates a committed path crosses a cell at or above the replan threshold.
	ErrPathUnsafe = errors.New("planner: path crosses high-risk cell")
	// ErrNoFrontiers indicates the frontier source returned no goal candidates.
	ErrNoFrontiers = errors.New("planner: no frontier left to visit")
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("planner: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("planner: all grid rows must have the same length")
)

// NoPathError reports that the predecessor map has no chain from Goal back to Start.
// It matches ErrNoPathFound under errors.Is.
type NoPathError struct {
	Start, Goal Cell
	At          Cell // first cell without a recorded predecessor
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("planner: no path from %v to %v (chain breaks at %v)", e.Start, e.Goal, e.At)
}

func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPathFound
}
