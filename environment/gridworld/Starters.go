package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/rlenv/gridworld/environment"
)

// SingleStart starts every episode at the same fixed cell
type SingleStart struct {
	state *mat.VecDense
}

// NewSingleStart returns a Starter that always starts episodes at
// cell start on a grid with rows rows and cols columns
func NewSingleStart(start Coord, rows, cols int) (env.Starter, error) {
	if start.Row < 0 || start.Row >= rows || start.Col < 0 ||
		start.Col >= cols {
		return nil, fmt.Errorf("singleStart: start %v out of bounds "+
			"(%d, %d)", start, rows, cols)
	}

	return &SingleStart{obs(start)}, nil
}

// Start returns the starting state vector
func (s *SingleStart) Start() *mat.VecDense {
	// Copy so that callers cannot mutate the stored start state
	out := mat.NewVecDense(2, nil)
	out.CopyVec(s.state)
	return out
}
