package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Cell identifies a grid position. Cells are plain values compared by exact equality.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// GridVariant selects which occupancy layer is read or written.
type GridVariant int

const (
	// RawGrid holds risk as estimated from sensor returns.
	RawGrid GridVariant = iota
	// ExpandedGrid holds risk inflated by the robot footprint.
	ExpandedGrid
)

func (v GridVariant) String() string {
	switch v {
	case RawGrid:
		return "raw"
	case ExpandedGrid:
		return "expanded"
	default:
		return fmt.Sprintf("GridVariant(%d)", int(v))
	}
}

// UnknownRisk is the risk of a cell about which nothing is known either way.
const UnknownRisk = 0.5

// GridMap is the occupancy map contract consumed by the planner.
// Risk reports ok=false for cells that carry no sensor evidence yet.
type GridMap interface {
	InBounds(c Cell) bool
	Risk(v GridVariant, c Cell) (risk float64, ok bool)
	SetRisk(v GridVariant, c Cell, risk float64)
}

// OccupancyGrid is an in-memory GridMap with a raw and an expanded layer.
// Undefined cells are stored as NaN.
type OccupancyGrid struct {
	rows, cols int
	raw        *mat.Dense
	expanded   *mat.Dense
}

// NewOccupancyGrid returns a rows×cols grid with every cell undefined in both layers.
func NewOccupancyGrid(rows, cols int) (*OccupancyGrid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}
	return &OccupancyGrid{
		rows:     rows,
		cols:     cols,
		raw:      mat.NewDense(rows, cols, undefinedData(rows*cols)),
		expanded: mat.NewDense(rows, cols, undefinedData(rows*cols)),
	}, nil
}

// NewOccupancyGridFromRows builds a grid whose raw and expanded layers both equal values.
// NaN entries are undefined. The input is copied.
func NewOccupancyGridFromRows(values [][]float64) (*OccupancyGrid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	rows, cols := len(values), len(values[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range values {
		if len(row) != cols {
			return nil, ErrNonRectangular
		}
		data = append(data, row...)
	}
	raw := mat.NewDense(rows, cols, data)
	expanded := mat.DenseCopyOf(raw)
	return &OccupancyGrid{rows: rows, cols: cols, raw: raw, expanded: expanded}, nil
}

func undefinedData(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}
	return data
}

// Dims returns the grid extent.
func (g *OccupancyGrid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// InBounds reports whether c lies within the grid.
func (g *OccupancyGrid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *OccupancyGrid) layer(v GridVariant) *mat.Dense {
	if v == ExpandedGrid {
		return g.expanded
	}
	return g.raw
}

// Risk returns the risk stored for c. ok is false when c is undefined or out of bounds.
func (g *OccupancyGrid) Risk(v GridVariant, c Cell) (float64, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	r := g.layer(v).At(c.Row, c.Col)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

// SetRisk stores risk for c. Writes outside the grid are dropped.
func (g *OccupancyGrid) SetRisk(v GridVariant, c Cell, risk float64) {
	if !g.InBounds(c) {
		tracef("dropping %s write outside grid at %v", v, c)
		return
	}
	g.layer(v).Set(c.Row, c.Col, risk)
}

// Inflate recomputes the expanded layer from the raw layer. Each expanded cell takes the
// highest defined raw risk within radius cells (Chebyshev distance). Cells whose own raw
// risk is undefined stay undefined. A radius wider than the grid is clamped.
func (g *OccupancyGrid) Inflate(radius int) {
	if radius < 0 {
		radius = 0
	}
	if span := max(g.rows, g.cols); radius > span {
		radius = span
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			own := g.raw.At(r, c)
			if math.IsNaN(own) {
				g.expanded.Set(r, c, own)
				continue
			}
			highest := own
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					n := Cell{Row: r + dr, Col: c + dc}
					if !g.InBounds(n) {
						continue
					}
					if v := g.raw.At(n.Row, n.Col); v > highest {
						highest = v
					}
				}
			}
			g.expanded.Set(r, c, highest)
		}
	}
}
