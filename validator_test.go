package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathValidator_SafePath(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0.2)
	path := Path{{2, 2}, {1, 1}, {0, 0}}

	v := PathValidator{Threshold: 0.5}.Check(grid, path)

	assert.False(t, v.Unsafe)
	assert.Equal(t, ReasonNone, v.Reason)
	assert.NoError(t, v.Err())
}

func TestPathValidator_EmptyPath(t *testing.T) {
	grid := uniformGrid(t, 2, 2, 0)
	assert.False(t, PathValidator{Threshold: 0.5}.Check(grid, nil).Unsafe)
}

func TestPathValidator_HighRisk(t *testing.T) {
	grid := uniformGrid(t, 5, 5, 0)
	grid.SetRisk(ExpandedGrid, Cell{1, 1}, 0.6)
	path := Path{{2, 2}, {1, 1}, {0, 0}}

	tests := []struct {
		threshold  float64
		wantUnsafe bool
	}{
		{0.5, true},
		{0.6, true}, // at the threshold counts as unsafe
		{0.7, false},
		{0.2, true},
	}
	for _, tt := range tests {
		v := PathValidator{Threshold: tt.threshold}.Check(grid, path)
		assert.Equal(t, tt.wantUnsafe, v.Unsafe, "threshold %.1f", tt.threshold)
		if tt.wantUnsafe {
			assert.Equal(t, ReasonHighRisk, v.Reason)
			assert.Equal(t, Cell{1, 1}, v.Cell)
			assert.Equal(t, 0.6, v.Risk)
			assert.ErrorIs(t, v.Err(), ErrPathUnsafe)
		}
	}
}

func TestPathValidator_UndefinedResetsRaw(t *testing.T) {
	grid := uniformGrid(t, 3, 3, 0)
	grid.SetRisk(RawGrid, Cell{0, 2}, math.NaN())
	grid.SetRisk(ExpandedGrid, Cell{0, 2}, math.NaN())
	grid.SetRisk(RawGrid, Cell{0, 1}, math.NaN())
	grid.SetRisk(ExpandedGrid, Cell{0, 1}, math.NaN())
	path := Path{{0, 2}, {0, 1}, {0, 0}}

	v := PathValidator{Threshold: 0.5}.Check(grid, path)

	require.True(t, v.Unsafe)
	assert.Equal(t, ReasonUndefined, v.Reason)
	assert.Equal(t, Cell{0, 2}, v.Cell, "scan stops at the first offending cell")
	assert.ErrorIs(t, v.Err(), ErrMapInconsistent)

	raw, ok := grid.Risk(RawGrid, Cell{0, 2})
	require.True(t, ok)
	assert.Equal(t, UnknownRisk, raw)

	_, ok = grid.Risk(RawGrid, Cell{0, 1})
	assert.False(t, ok, "cells after the first problem are left alone")

	_, ok = grid.Risk(ExpandedGrid, Cell{0, 2})
	assert.False(t, ok, "the expanded layer is not written")
}

func TestPathValidator_Idempotent(t *testing.T) {
	grid := uniformGrid(t, 3, 3, 0)
	grid.SetRisk(ExpandedGrid, Cell{1, 1}, math.NaN())
	path := Path{{2, 2}, {1, 1}, {0, 0}}
	validator := PathValidator{Threshold: 0.5}

	first := validator.Check(grid, path)
	second := validator.Check(grid, path)

	assert.Equal(t, first, second)
	raw, _ := grid.Risk(RawGrid, Cell{1, 1})
	assert.Equal(t, UnknownRisk, raw)
}

func TestPathValidator_ReinflationBlocksResetCell(t *testing.T) {
	grid := uniformGrid(t, 3, 3, 0)
	grid.SetRisk(RawGrid, Cell{1, 1}, math.NaN())
	grid.SetRisk(ExpandedGrid, Cell{1, 1}, math.NaN())
	path := Path{{2, 2}, {1, 1}, {0, 0}}
	validator := PathValidator{Threshold: 0.5}

	require.Equal(t, ReasonUndefined, validator.Check(grid, path).Reason)

	grid.Inflate(0)
	v := validator.Check(grid, path)
	assert.Equal(t, ReasonHighRisk, v.Reason)
	assert.Equal(t, UnknownRisk, v.Risk)
	assert.NotContains(t, Neighbours(grid, Cell{0, 0}, 0.5), Cell{1, 1})
}

func TestPathValidator_OutOfBounds(t *testing.T) {
	grid := uniformGrid(t, 3, 3, 0)

	v := PathValidator{Threshold: 0.5}.Check(grid, Path{{3, 3}, {2, 2}})

	assert.True(t, v.Unsafe)
	assert.Equal(t, ReasonOutOfBounds, v.Reason)
	assert.ErrorIs(t, v.Err(), ErrPathUnsafe)
}

func TestVerdictReason_String(t *testing.T) {
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "high_risk", ReasonHighRisk.String())
	assert.Equal(t, "undefined", ReasonUndefined.String())
	assert.Equal(t, "out_of_bounds", ReasonOutOfBounds.String())
}
