package main

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireValidPath checks the structural properties every returned path must have.
func requireValidPath(t *testing.T, grid GridMap, path Path, start, goal Cell, threshold float64) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, goal, path.Goal(), "path must begin at the goal")
	assert.Equal(t, start, path.Start(), "path must end at the start")
	for i := 0; i+1 < len(path); i++ {
		assert.True(t, adjacent(path[i], path[i+1]), "%v and %v are not adjacent", path[i], path[i+1])
	}
	for _, c := range path[:len(path)-1] {
		risk, ok := grid.Risk(ExpandedGrid, c)
		if ok {
			assert.Less(t, risk, threshold, "path enters blocked cell %v", c)
		}
	}
}

func TestSearch_StartEqualsGoal(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	c := Cell{2, 3}

	res, err := Search(grid, c, c, DefaultSearchOptions())
	require.NoError(t, err)

	path, err := res.Path()
	require.NoError(t, err)
	assert.Equal(t, Path{c}, path)

	cost, ok := res.Cost()
	require.True(t, ok)
	assert.Equal(t, 0.0, cost)
	assert.Equal(t, 0, res.Expansions)
}

func TestSearch_OpenGrid(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	start := Cell{0, 0}

	tests := []struct {
		name     string
		goal     Cell
		wantLen  int
		wantCost float64
	}{
		{"diagonal", Cell{4, 4}, 5, 4 * math.Sqrt2},
		{"straight", Cell{0, 4}, 5, 4},
		{"knight", Cell{4, 2}, 5, 2 + 2*math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(grid, start, tt.goal, DefaultSearchOptions())
			require.NoError(t, err)

			path, err := res.Path()
			require.NoError(t, err)
			requireValidPath(t, grid, path, start, tt.goal, 0.5)
			assert.Len(t, path, tt.wantLen)

			cost, ok := res.Cost()
			require.True(t, ok)
			assert.InDelta(t, tt.wantCost, cost, 1e-9)
		})
	}
}

func TestSearch_DiagonalPathCells(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)

	res, err := Search(grid, Cell{0, 0}, Cell{4, 4}, DefaultSearchOptions())
	require.NoError(t, err)
	path, err := res.Path()
	require.NoError(t, err)

	want := Path{{4, 4}, {3, 3}, {2, 2}, {1, 1}, {0, 0}}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	cost, _ := res.Cost()
	assert.InDelta(t, cost, path.Cost(grid, DefaultSearchOptions().Costs), 1e-9)
}

func TestSearch_DetoursAroundHighRisk(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	grid.SetRisk(ExpandedGrid, Cell{2, 2}, 0.9)
	start, goal := Cell{0, 0}, Cell{4, 4}

	res, err := Search(grid, start, goal, DefaultSearchOptions())
	require.NoError(t, err)
	path, err := res.Path()
	require.NoError(t, err)

	requireValidPath(t, grid, path, start, goal, 0.5)
	assert.NotContains(t, path, Cell{2, 2})

	cost, _ := res.Cost()
	assert.Greater(t, cost, 4*math.Sqrt2)
}

func TestSearch_PrefersLowRiskBand(t *testing.T) {
	grid := uniformGrid(t, 3, 5, 0)
	for c := 1; c <= 3; c++ {
		grid.SetRisk(ExpandedGrid, Cell{1, c}, 0.3)
	}
	start, goal := Cell{1, 0}, Cell{1, 4}

	res, err := Search(grid, start, goal, DefaultSearchOptions())
	require.NoError(t, err)
	path, err := res.Path()
	require.NoError(t, err)

	requireValidPath(t, grid, path, start, goal, 0.5)
	for c := 1; c <= 3; c++ {
		assert.NotContains(t, path, Cell{1, c}, "route should avoid the 0.3 band")
	}
	cost, _ := res.Cost()
	assert.InDelta(t, 2+2*math.Sqrt2, cost, 1e-9)
}

func TestSearch_WalledOff(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	for r := 0; r < 5; r++ {
		grid.SetRisk(ExpandedGrid, Cell{r, 2}, 1)
	}

	res, err := Search(grid, Cell{0, 0}, Cell{4, 4}, DefaultSearchOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPathFound))
	require.NotNil(t, res, "partial result is returned with ErrNoPathFound")
	assert.NotContains(t, res.CameFrom, Cell{4, 4})

	_, err = res.Path()
	var noPath *NoPathError
	require.ErrorAs(t, err, &noPath)
	assert.Equal(t, Cell{4, 4}, noPath.At)
}

func TestSearch_BlockedGoal(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	grid.SetRisk(ExpandedGrid, Cell{4, 4}, 0.9)

	_, err := Search(grid, Cell{0, 0}, Cell{4, 4}, DefaultSearchOptions())
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestSearch_OutOfBounds(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)

	for _, tc := range []struct{ start, goal Cell }{
		{Cell{-1, 0}, Cell{4, 4}},
		{Cell{0, 0}, Cell{5, 0}},
		{Cell{0, 0}, Cell{0, 9}},
	} {
		res, err := Search(grid, tc.start, tc.goal, DefaultSearchOptions())
		assert.ErrorIs(t, err, ErrInvalidStartOrGoal)
		assert.Nil(t, res)
	}
}

func TestSearch_StartInsideInflation(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	grid.SetRisk(ExpandedGrid, Cell{0, 0}, 0.7)

	res, err := Search(grid, Cell{0, 0}, Cell{0, 4}, DefaultSearchOptions())
	require.NoError(t, err)
	path, err := res.Path()
	require.NoError(t, err)
	assert.Equal(t, Cell{0, 0}, path.Start())
}

func TestSearch_UndefinedCellsTraversable(t *testing.T) {
	grid, err := NewOccupancyGrid(3, 5)
	require.NoError(t, err)

	res, err := Search(grid, Cell{1, 0}, Cell{1, 4}, DefaultSearchOptions())
	require.NoError(t, err)
	cost, _ := res.Cost()
	assert.InDelta(t, 4.0, cost, 1e-9)
}

func TestSearch_ExpansionBudget(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	opts := DefaultSearchOptions()
	opts.MaxExpansions = 1

	res, err := Search(grid, Cell{0, 0}, Cell{4, 4}, opts)
	assert.ErrorIs(t, err, ErrSearchBudgetExceeded)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Expansions)

	opts.MaxExpansions = 100
	_, err = Search(grid, Cell{0, 0}, Cell{4, 4}, opts)
	assert.NoError(t, err)
}

func TestSearch_PredecessorChainConsistent(t *testing.T) {
	grid := uniformGrid(t, 8, 8, 0)
	grid.SetRisk(ExpandedGrid, Cell{3, 3}, 0.2)
	grid.SetRisk(ExpandedGrid, Cell{3, 4}, 0.9)
	grid.SetRisk(ExpandedGrid, Cell{4, 4}, 0.6)
	opts := DefaultSearchOptions()

	res, err := Search(grid, Cell{0, 0}, Cell{7, 6}, opts)
	require.NoError(t, err)
	path, err := res.Path()
	require.NoError(t, err)

	// Costs only ever decrease, so recorded costs bound the chain from above.
	cost, _ := res.Cost()
	assert.LessOrEqual(t, path.Cost(grid, opts.Costs), cost+1e-9)

	for i := 0; i+1 < len(path); i++ {
		pred := res.CameFrom[path[i]]
		require.True(t, pred.Valid)
		assert.Equal(t, path[i+1], pred.Cell)
		step := opts.Costs.EdgeCost(grid, path[i+1], path[i])
		assert.LessOrEqual(t, res.CostSoFar[path[i+1]]+step, res.CostSoFar[path[i]]+1e-9)
	}
	assert.False(t, res.CameFrom[Cell{0, 0}].Valid, "start has no predecessor")
}

func TestSearch_ResultsAreIndependent(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)

	first, err := Search(grid, Cell{0, 0}, Cell{4, 4}, DefaultSearchOptions())
	require.NoError(t, err)
	delete(first.CameFrom, Cell{4, 4})

	second, err := Search(grid, Cell{0, 0}, Cell{4, 4}, DefaultSearchOptions())
	require.NoError(t, err)
	_, err = second.Path()
	assert.NoError(t, err)
}
