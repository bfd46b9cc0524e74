package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Waypoint is a path vertex in fractional grid coordinates, with cell (r, c) at (r, c).
type Waypoint struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// SimplifyPath reduces a path to start-to-goal waypoints with Douglas-Peucker.
// epsilon is in cells; a non-positive epsilon keeps every cell. Both endpoints are always kept.
func SimplifyPath(path Path, epsilon float64) []Waypoint {
	if len(path) == 0 {
		return nil
	}

	ls := make(orb.LineString, 0, len(path))
	for _, c := range path.Reversed() {
		ls = append(ls, gridPoint(float64(c.Row), float64(c.Col)))
	}
	if epsilon > 0 && len(ls) > 2 {
		if reduced, ok := simplify.DouglasPeucker(epsilon).Simplify(ls).(orb.LineString); ok {
			ls = reduced
		}
	}

	waypoints := make([]Waypoint, len(ls))
	for i, p := range ls {
		row, col := pointGrid(p)
		waypoints[i] = Waypoint{Row: row, Col: col}
	}
	return waypoints
}
