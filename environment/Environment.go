// Package environment outlines the interfaces needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/rlenv/gridworld/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when environmental episodes end. If an episode
// should end, an Ender adjusts the StepType and EndType of the final
// timestep accordingly.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment. A Task determines the starting states in an
// environment, the rewards taken for actions in specific states, and
// when the task has been completed.
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action a in state,
	// transitioning to nextState. The nextState argument is the raw
	// candidate state, which the environment may have rejected as
	// illegal.
	GetReward(state, a, nextState mat.Vector) float64

	// AtGoal returns whether state is a goal state of the Task
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given a 1-dimensional action,
	// returning the next timestep and whether it is the last in the
	// episode. Illegal actions result in an error.
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the last timestep of the environment
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
