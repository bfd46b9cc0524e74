package main

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent pads degenerate bounding boxes; rtreego rejects zero-length sides.
const minExtent = 1e-9

// ObstacleEntry wraps an obstacle polygon for R-tree storage.
type ObstacleEntry struct {
	Polygon orb.Polygon
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *ObstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// ObstacleIndex answers which obstacle polygons overlap a region.
type ObstacleIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewObstacleIndex builds an index over polygons. Empty polygons are skipped.
func NewObstacleIndex(polygons []orb.Polygon) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := 0
	for _, polygon := range polygons {
		if len(polygon) == 0 || len(polygon[0]) == 0 {
			continue
		}
		bbox, err := boundToRect(polygon.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&ObstacleEntry{Polygon: polygon, BBox: bbox})
		size++
	}

	return &ObstacleIndex{tree: tree, size: size}
}

// Len returns the number of indexed polygons.
func (oi *ObstacleIndex) Len() int { return oi.size }

// Query returns polygons whose bounding boxes intersect b.
func (oi *ObstacleIndex) Query(b orb.Bound) []orb.Polygon {
	rect, err := boundToRect(b)
	if err != nil {
		return nil
	}

	results := oi.tree.SearchIntersect(rect)
	polygons := make([]orb.Polygon, 0, len(results))
	for _, item := range results {
		polygons = append(polygons, item.(*ObstacleEntry).Polygon)
	}
	return polygons
}

func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min.X(), b.Min.Y()},
		[]float64{max(b.Max.X()-b.Min.X(), minExtent), max(b.Max.Y()-b.Min.Y(), minExtent)},
	)
}

// candidateEntry is a goal candidate stored as a near-point rectangle.
type candidateEntry struct {
	candidate GoalCandidate
	rect      rtreego.Rect
}

func (e *candidateEntry) Bounds() rtreego.Rect { return e.rect }

// orderByDistance returns candidates sorted nearest-first from robot.
func orderByDistance(candidates []GoalCandidate, robot Cell) []GoalCandidate {
	if len(candidates) < 2 {
		return candidates
	}

	tree := rtreego.NewTree(2, 2, 8)
	for _, c := range candidates {
		rect, err := rtreego.NewRect(rtreego.Point{c.Row, c.Col}, []float64{minExtent, minExtent})
		if err != nil {
			continue
		}
		tree.Insert(&candidateEntry{candidate: c, rect: rect})
	}

	nearest := tree.NearestNeighbors(len(candidates), rtreego.Point{float64(robot.Row), float64(robot.Col)})
	ordered := make([]GoalCandidate, 0, len(nearest))
	for _, item := range nearest {
		if item == nil {
			continue
		}
		ordered = append(ordered, item.(*candidateEntry).candidate)
	}
	return ordered
}
