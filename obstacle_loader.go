package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// LoadObstacles reads every *.geojson file in dir and returns its polygons in world
// coordinates, minus polygons contained in others. Unreadable files are skipped.
func LoadObstacles(dir string) ([]orb.Polygon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacles from %d GeoJSON files...\n", len(files))

	var all []orb.Polygon
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v\n", file, err)
			continue
		}

		polygons, err := ParseObstacles(data)
		if err != nil {
			log.Printf("⚠️  Failed to parse %s: %v\n", file, err)
			continue
		}
		all = append(all, polygons...)

		log.Printf("   ✅ Loaded %d polygons from %s\n", len(polygons), filepath.Base(file))
	}

	kept := DropContainedObstacles(all)
	log.Printf("Total obstacles loaded: %d polygons (%d contained dropped)\n", len(kept), len(all)-len(kept))
	return kept, nil
}

// ParseObstacles extracts Polygon and MultiPolygon geometries from a GeoJSON feature collection.
func ParseObstacles(data []byte) ([]orb.Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature collection: %w", err)
	}

	var polygons []orb.Polygon
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		}
	}
	return polygons, nil
}

// RasterizeObstacles writes risk into the raw layer of every cell whose centre lies inside an
// obstacle and returns how many cells were marked. Other cells are left untouched.
func RasterizeObstacles(grid *OccupancyGrid, frame MapFrame, obstacles []orb.Polygon, risk float64) int {
	index := NewObstacleIndex(obstacles)
	if index.Len() == 0 {
		return 0
	}

	marked := 0
	rows, cols := grid.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := Cell{Row: r, Col: c}
			center := frame.Center(cell)
			for _, polygon := range index.Query(frame.Bound(cell)) {
				if planar.PolygonContains(polygon, center) {
					grid.SetRisk(RawGrid, cell, risk)
					marked++
					break
				}
			}
		}
	}
	return marked
}
