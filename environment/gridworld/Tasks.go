package gridworld

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	env "github.com/rlenv/gridworld/environment"
	ts "github.com/rlenv/gridworld/timestep"
)

// Reach is the task of reaching the terminal cell of a gridworld.
// Episodes end when the agent reaches the terminal cell, or after a
// fixed timestep cutoff when one is configured.
//
// The reward for a transition is the reward of the cell stepped onto.
// A transition onto an illegal cell is rewarded with the invalid-move
// penalty instead, distinguishing "tried to do something illegal" from
// "stepped onto a marked negative cell".
//
// A Reach task must be registered with a Layout before use;
// gridworld.New registers its task automatically.
type Reach struct {
	env.Starter
	layout *Layout

	invalidPenalty float64
	stepLimit      env.Ender
	atTerminal     env.Ender

	registered bool
}

// NewReach returns a new Reach task with start state distribution s.
// A positive cutoff bounds episode length: episodes running longer are
// cut off with end type timestep.Timeout. A cutoff <= 0 leaves
// episodes unbounded. Transitions onto illegal cells are rewarded with
// invalidPenalty.
func NewReach(s env.Starter, cutoff int, invalidPenalty float64) *Reach {
	r := &Reach{
		Starter:        s,
		invalidPenalty: invalidPenalty,
	}
	if cutoff > 0 {
		r.stepLimit = env.NewStepLimit(cutoff)
	}
	return r
}

// Register registers a Layout with the task
func (r *Reach) Register(l *Layout) {
	r.layout = l
	r.atTerminal = env.NewFunctionEnder(func(o *mat.VecDense) bool {
		return coordOf(o) == l.Terminal()
	}, ts.TerminalStateReached)
	r.registered = true
}

// GetReward returns the reward for transitioning to nextState. The
// nextState argument is the raw candidate cell of the transition: if
// it is not traversable, the transition was rejected and the reward is
// the invalid-move penalty. Otherwise the reward is the value of the
// cell stepped onto.
func (r *Reach) GetReward(_, _, nextState mat.Vector) float64 {
	next := coordOf(nextState)
	if !r.layout.Traversable(next) {
		return r.invalidPenalty
	}
	return r.layout.RewardAt(next)
}

// AtGoal returns whether state is the terminal cell
func (r *Reach) AtGoal(state mat.Matrix) bool {
	rows, cols := state.Dims()
	if rows != 2 || cols != 1 {
		return false
	}

	at := Coord{Row: int(state.At(0, 0)), Col: int(state.At(1, 0))}
	return at == r.layout.Terminal()
}

// End determines whether or not the current episode should be ended,
// adjusting the timestep's StepType and EndType accordingly. Reaching
// the terminal cell takes precedence over the timestep cutoff.
func (r *Reach) End(t *ts.TimeStep) bool {
	if last := r.atTerminal.End(t); last {
		return true
	}
	if r.stepLimit != nil {
		return r.stepLimit.End(t)
	}
	return false
}

// Min returns the minimum reward attainable in the Task
func (r *Reach) Min() float64 {
	return floats.Min(append(r.cellRewards(), r.invalidPenalty))
}

// Max returns the maximum reward attainable in the Task
func (r *Reach) Max() float64 {
	return floats.Max(append(r.cellRewards(), r.invalidPenalty))
}

// cellRewards returns the rewards of all traversable cells
func (r *Reach) cellRewards() []float64 {
	rewards := make([]float64, 0, r.layout.Rows()*r.layout.Cols())
	for row := 0; row < r.layout.Rows(); row++ {
		for col := 0; col < r.layout.Cols(); col++ {
			c := Coord{Row: row, Col: col}
			if r.layout.Traversable(c) {
				rewards = append(rewards, r.layout.RewardAt(c))
			}
		}
	}
	return rewards
}
