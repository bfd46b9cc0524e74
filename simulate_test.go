package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate(t *testing.T) {
	p := integrate(Pose{Row: 5, Col: 5, Heading: 0}, Command{Linear: 1}, 1)
	assert.InDelta(t, 5, p.Row, 1e-9)
	assert.InDelta(t, 6, p.Col, 1e-9)

	p = integrate(Pose{Row: 5, Col: 5, Heading: math.Pi / 2}, Command{Linear: 2}, 0.5)
	assert.InDelta(t, 4, p.Row, 1e-9, "heading pi/2 moves toward row 0")
	assert.InDelta(t, 5, p.Col, 1e-9)

	p = integrate(Pose{Heading: 3}, Command{Angular: 1}, 1)
	assert.InDelta(t, 4-2*math.Pi, p.Heading, 1e-9)
}

func TestSimWorld_Sense(t *testing.T) {
	world, err := newSimWorld(1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, world.knownFraction())

	world.sense(Pose{Row: 5.5, Col: 5.5}, 1)

	risk, ok := world.known.Risk(RawGrid, Cell{5, 5})
	require.True(t, ok)
	assert.Equal(t, 0.0, risk)

	wall, ok := world.known.Risk(RawGrid, Cell{0, 5})
	require.True(t, ok)
	assert.Equal(t, simWallRisk, wall)

	inflated, ok := world.known.Risk(ExpandedGrid, Cell{1, 5})
	require.True(t, ok)
	assert.Equal(t, simWallRisk, inflated, "cells next to the wall are inflated")

	_, ok = world.known.Risk(RawGrid, Cell{30, 30})
	assert.False(t, ok, "cells out of range stay unknown")

	fraction := world.knownFraction()
	assert.Greater(t, fraction, 0.0)
	assert.Less(t, fraction, 0.2)
}

func TestRunSimulation_Explores(t *testing.T) {
	summary, err := runSimulation(EmptyPlannerConfig(), "", 40)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.LessOrEqual(t, summary.Cycles, 40)
	assert.Positive(t, summary.Replans)
	assert.Positive(t, summary.Commands, "every replan sends at least a stop")
	assert.Greater(t, summary.KnownFraction, 0.0)
}

func TestRunSimulation_WithObstacles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.geojson"), []byte(`{
  "type": "FeatureCollection",
  "features": [{"type": "Feature", "properties": {},
    "geometry": {"type": "Polygon", "coordinates": [[[20,10],[30,10],[30,20],[20,20],[20,10]]]}}]
}`), 0644))

	summary, err := runSimulation(EmptyPlannerConfig(), dir, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, summary.Cycles, 5)
}

func TestRunSimulation_MissingObstacleDir(t *testing.T) {
	summary, err := runSimulation(EmptyPlannerConfig(), filepath.Join(t.TempDir(), "absent"), 1)
	require.NoError(t, err, "a missing directory simply has no obstacle files")
	assert.Equal(t, 1, summary.Cycles)
}
