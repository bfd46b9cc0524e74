package main

// Path is an ordered cell sequence from the goal back to the start: p[0] is the goal and
// p[len(p)-1] is the start. Use Reversed for start-to-goal order.
type Path []Cell

// Goal returns the first cell of the path.
func (p Path) Goal() Cell { return p[0] }

// Start returns the last cell of the path.
func (p Path) Start() Cell { return p[len(p)-1] }

// Reversed returns a start-to-goal copy of p.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// Cost sums the step costs along the path under the given model, walking from start to goal.
func (p Path) Cost(grid GridMap, costs CostModel) float64 {
	total := 0.0
	for i := len(p) - 1; i > 0; i-- {
		total += costs.EdgeCost(grid, p[i], p[i-1])
	}
	return total
}

// ReconstructPath walks cameFrom backward from goal until start and returns the cells in
// goal-to-start order. A goal that the search never reached, or a broken chain, yields a
// *NoPathError.
func ReconstructPath(cameFrom map[Cell]Predecessor, start, goal Cell) (Path, error) {
	var path Path
	current := goal
	for current != start {
		path = append(path, current)
		prev, ok := cameFrom[current]
		if !ok || !prev.Valid || len(path) > len(cameFrom) {
			return nil, &NoPathError{Start: start, Goal: goal, At: current}
		}
		current = prev.Cell
	}
	path = append(path, start)
	return path, nil
}
