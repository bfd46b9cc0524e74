package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Pose is the robot position in fractional grid units plus its heading.
// Heading is in radians, counter-clockwise from the +column axis, with rows growing
// downward (the planar frame used by gridPoint).
type Pose struct {
	Row     float64 `json:"row"`
	Col     float64 `json:"col"`
	Heading float64 `json:"heading"`
}

// Cell floors the pose onto the grid cell that contains it.
func (p Pose) Cell() Cell {
	return Cell{Row: int(math.Floor(p.Row)), Col: int(math.Floor(p.Col))}
}

// Point returns the pose position in the planar frame.
func (p Pose) Point() orb.Point {
	return gridPoint(p.Row, p.Col)
}

// gridPoint maps fractional (row, col) into a right-handed planar frame: x = col, y = -row.
func gridPoint(row, col float64) orb.Point {
	return orb.Point{col, -row}
}

// pointGrid is the inverse of gridPoint.
func pointGrid(p orb.Point) (row, col float64) {
	return -p.Y(), p.X()
}

// cellPoint returns the planar point at the centre of c, so that Pose{r+0.5, c+0.5}.Cell() == c.
func cellPoint(c Cell) orb.Point {
	return gridPoint(float64(c.Row)+0.5, float64(c.Col)+0.5)
}

// cellDistance is the Euclidean distance between two cells in cell units.
func cellDistance(a, b Cell) float64 {
	return planar.Distance(cellPoint(a), cellPoint(b))
}

// adjacent reports whether a and b are distinct 8-connected neighbours.
func adjacent(a, b Cell) bool {
	dr, dc := absInt(a.Row-b.Row), absInt(a.Col-b.Col)
	return a != b && dr <= 1 && dc <= 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// normalizeAngle wraps an angle into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// MapFrame converts between world coordinates (metres) and grid cells.
// Row 0 is the top edge at YMax; column 0 is the left edge at XMin.
type MapFrame struct {
	XMin     float64 `json:"xMin"`
	YMax     float64 `json:"yMax"`
	CellSize float64 `json:"cellSize"`
}

// ToGrid returns the fractional (row, col) of a world point.
func (f MapFrame) ToGrid(p orb.Point) (row, col float64) {
	return (f.YMax - p.Y()) / f.CellSize, (p.X() - f.XMin) / f.CellSize
}

// CellAt returns the cell containing a world point.
func (f MapFrame) CellAt(p orb.Point) Cell {
	row, col := f.ToGrid(p)
	return Cell{Row: int(math.Floor(row)), Col: int(math.Floor(col))}
}

// Center returns the world point at the centre of c.
func (f MapFrame) Center(c Cell) orb.Point {
	return orb.Point{
		f.XMin + (float64(c.Col)+0.5)*f.CellSize,
		f.YMax - (float64(c.Row)+0.5)*f.CellSize,
	}
}

// Bound returns the world-space square covered by c.
func (f MapFrame) Bound(c Cell) orb.Bound {
	minX := f.XMin + float64(c.Col)*f.CellSize
	maxY := f.YMax - float64(c.Row)*f.CellSize
	return orb.Bound{
		Min: orb.Point{minX, maxY - f.CellSize},
		Max: orb.Point{minX + f.CellSize, maxY},
	}
}
