// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Coord identifies a single cell of a gridworld by row and column.
// Row 0 is the top row and column 0 is the leftmost column. All
// internal gridworld logic works in (row, column).
type Coord struct {
	Row, Col int
}

// XY converts a coordinate given in the (x, y) convention of
// declarative grid configurations into a Coord. The axis swap happens
// here, exactly once, at the construction boundary.
func XY(x, y int) Coord {
	return Coord{Row: y, Col: x}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// CellReward assigns a reward value to a single cell
type CellReward struct {
	Cell   Coord
	Reward float64
}

// Layout describes the static cell structure of a gridworld: the
// reward value of every traversable cell, the set of barrier cells,
// and the terminal cell. A Layout is built once and never mutated.
//
// Construction applies three ordered layers: a base layer of zero
// rewards, then the terminal and negative reward values, then the
// barriers. Barriers are applied last, so a barrier placed on a reward
// cell turns that cell into a barrier and its reward value becomes
// unreachable. A barrier may never cover the terminal cell.
type Layout struct {
	rows, cols int
	rewards    *mat.Dense
	barriers   map[Coord]bool
	terminal   Coord
}

// NewLayout creates a new Layout with rows rows and cols columns,
// reward terminalReward at the terminal cell, the argument negative
// reward cells, and the argument barrier cells. All coordinates must
// be within the grid bounds, and the terminal cell may not be a
// barrier; violations are configuration errors.
func NewLayout(rows, cols int, terminal Coord, terminalReward float64,
	negative []CellReward, barriers []Coord) (*Layout, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("newLayout: dimensions (%d, %d) must be "+
			"positive", rows, cols)
	}

	l := &Layout{
		rows:     rows,
		cols:     cols,
		rewards:  mat.NewDense(rows, cols, nil),
		barriers: make(map[Coord]bool),
		terminal: terminal,
	}

	// Reward layer: the terminal bonus, then the negative cells
	if !l.Contains(terminal) {
		return nil, fmt.Errorf("newLayout: terminal %v out of bounds "+
			"(%d, %d)", terminal, rows, cols)
	}
	l.rewards.Set(terminal.Row, terminal.Col, terminalReward)

	for _, n := range negative {
		if !l.Contains(n.Cell) {
			return nil, fmt.Errorf("newLayout: reward cell %v out of bounds "+
				"(%d, %d)", n.Cell, rows, cols)
		}
		l.rewards.Set(n.Cell.Row, n.Cell.Col, n.Reward)
	}

	// Barrier layer last: barriers take precedence over rewards
	for _, b := range barriers {
		if !l.Contains(b) {
			return nil, fmt.Errorf("newLayout: barrier %v out of bounds "+
				"(%d, %d)", b, rows, cols)
		}
		if b == terminal {
			return nil, fmt.Errorf("newLayout: barrier %v covers the "+
				"terminal cell", b)
		}
		l.barriers[b] = true
	}

	return l, nil
}

// Rows returns the number of rows in the Layout
func (l *Layout) Rows() int {
	return l.rows
}

// Cols returns the number of columns in the Layout
func (l *Layout) Cols() int {
	return l.cols
}

// Contains returns whether c lies within the grid bounds
func (l *Layout) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < l.rows && c.Col >= 0 && c.Col < l.cols
}

// IsBarrier returns whether c is a barrier cell
func (l *Layout) IsBarrier(c Coord) bool {
	return l.barriers[c]
}

// Traversable returns whether the agent may occupy c: the cell must be
// within the grid bounds and must not be a barrier
func (l *Layout) Traversable(c Coord) bool {
	return l.Contains(c) && !l.IsBarrier(c)
}

// RewardAt returns the reward for stepping onto c. The value is only
// meaningful for traversable cells; barrier cells can never be stepped
// onto.
func (l *Layout) RewardAt(c Coord) float64 {
	return l.rewards.At(c.Row, c.Col)
}

// Terminal returns the terminal cell of the Layout
func (l *Layout) Terminal() Coord {
	return l.terminal
}

// String returns the cell rewards of the Layout as a formatted matrix
func (l *Layout) String() string {
	fa := mat.Formatted(l.rewards, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}
