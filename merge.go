package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DropContainedObstacles removes obstacles that lie entirely inside another obstacle.
// Rasterising them again would only repeat work. Of two identical obstacles the later one
// is kept.
func DropContainedObstacles(polygons []orb.Polygon) []orb.Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	contained := make([]bool, len(polygons))
	for i := range polygons {
		if contained[i] {
			continue
		}
		for j := range polygons {
			if i == j || contained[j] {
				continue
			}
			if isObstacleContainedIn(polygons[i], polygons[j]) {
				contained[i] = true
				break
			}
		}
	}

	result := make([]orb.Polygon, 0, len(polygons))
	for i, p := range polygons {
		if !contained[i] {
			result = append(result, p)
		}
	}
	return result
}

// isObstacleContainedIn checks if every outer-ring vertex of a lies inside b.
func isObstacleContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 {
		return false
	}

	ab, bb := a.Bound(), b.Bound()
	if !bb.Contains(ab.Min) || !bb.Contains(ab.Max) {
		return false
	}

	for _, vertex := range a[0] {
		if !planar.PolygonContains(b, vertex) && !onRing(b[0], vertex) {
			return false
		}
	}
	return true
}

// onRing reports whether p coincides with a ring vertex.
func onRing(ring orb.Ring, p orb.Point) bool {
	for _, v := range ring {
		if v.Equal(p) {
			return true
		}
	}
	return false
}
