package main

// conn8Offsets lists the eight (Δrow, Δcol) steps around a cell.
var conn8Offsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbours returns the 8-connected cells around c that are inside the grid and whose
// expanded risk is below threshold. Cells at or above threshold are unknown-or-worse and
// never returned. Undefined cells are returned: nothing says they are at or above it.
//
// An empty result is a dead end for the search, not an error.
func Neighbours(grid GridMap, c Cell, threshold float64) []Cell {
	out := make([]Cell, 0, len(conn8Offsets))
	for _, d := range conn8Offsets {
		n := Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
		if !grid.InBounds(n) {
			continue
		}
		if risk, ok := grid.Risk(ExpandedGrid, n); ok && risk >= threshold {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		tracef("no traversable neighbours around %v", c)
	}
	return out
}
