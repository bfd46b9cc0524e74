package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}

const obstacleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "shelf"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,4],[0,4],[0,0]]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[10,10],[12,10],[12,12],[10,12],[10,10]]],
       [[[1,1],[2,1],[2,2],[1,2],[1,1]]]
     ]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

// ===== Parsing and loading =====

func TestParseObstacles(t *testing.T) {
	polygons, err := ParseObstacles([]byte(obstacleCollection))
	require.NoError(t, err)
	assert.Len(t, polygons, 3, "points are ignored, multipolygons are flattened")

	_, err = ParseObstacles([]byte(`{"type": "FeatureCollection", "features": [`))
	assert.Error(t, err)
}

func TestLoadObstacles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "warehouse.geojson"), []byte(obstacleCollection), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("not geojson"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	polygons, err := LoadObstacles(dir)
	require.NoError(t, err)

	assert.Len(t, polygons, 2, "the polygon inside the shelf is dropped")
}

func TestLoadObstacles_EmptyDir(t *testing.T) {
	polygons, err := LoadObstacles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, polygons)
}

// ===== Containment =====

func TestDropContainedObstacles(t *testing.T) {
	outer := square(0, 0, 10, 10)
	inner := square(2, 2, 4, 4)
	overlapping := square(8, 8, 12, 12)

	got := DropContainedObstacles([]orb.Polygon{inner, outer, overlapping})

	require.Len(t, got, 2)
	assert.Equal(t, outer, got[0])
	assert.Equal(t, overlapping, got[1])
}

func TestDropContainedObstacles_Duplicates(t *testing.T) {
	a := square(0, 0, 1, 1)
	b := square(0, 0, 1, 1)

	got := DropContainedObstacles([]orb.Polygon{a, b})
	assert.Len(t, got, 1)
}

func TestDropContainedObstacles_Trivial(t *testing.T) {
	assert.Empty(t, DropContainedObstacles(nil))
	one := []orb.Polygon{square(0, 0, 1, 1)}
	assert.Equal(t, one, DropContainedObstacles(one))
}

// ===== Index and rasterisation =====

func TestObstacleIndex_Query(t *testing.T) {
	index := NewObstacleIndex([]orb.Polygon{
		square(0, 0, 2, 2),
		square(5, 5, 6, 6),
		{}, // skipped
	})
	require.Equal(t, 2, index.Len())

	hits := index.Query(orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1.5, 1.5}})
	require.Len(t, hits, 1)
	assert.Equal(t, square(0, 0, 2, 2), hits[0])

	assert.Empty(t, index.Query(orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{4, 4}}))
	assert.Len(t, index.Query(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}), 2)
}

func TestRasterizeObstacles(t *testing.T) {
	grid := uniformGrid(t, 10, 10, 0)
	frame := MapFrame{XMin: 0, YMax: 10, CellSize: 1}

	n := RasterizeObstacles(grid, frame, []orb.Polygon{square(2, 6, 5, 9)}, 1)
	assert.Equal(t, 9, n)

	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			want := 0.0
			if r >= 1 && r <= 3 && c >= 2 && c <= 4 {
				want = 1
			}
			got, _ := grid.Risk(RawGrid, Cell{r, c})
			assert.Equal(t, want, got, "raw (%d,%d)", r, c)
		}
	}

	exp, _ := grid.Risk(ExpandedGrid, Cell{2, 3})
	assert.Equal(t, 0.0, exp, "rasterising only writes the raw layer")
}

func TestRasterizeObstacles_NoObstacles(t *testing.T) {
	grid := uniformGrid(t, 3, 3, 0)
	assert.Equal(t, 0, RasterizeObstacles(grid, MapFrame{YMax: 3, CellSize: 1}, nil, 1))
}
