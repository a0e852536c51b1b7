// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended. The EndType of a TimeStep is
// only meaningful if its StepType is Last.
type EndType int

const (
	// TerminalStateReached indicates that the episode ended in a
	// terminal state of the environment
	TerminalStateReached EndType = iota

	// Timeout indicates that the episode was cut off at a timestep limit
	Timeout

	// Nil indicates that the episode has not yet ended
	Nil
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	endType     EndType
}

// New constructs a new TimeStep with end type Nil
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// SetEnd records how the episode containing the TimeStep ended
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// End returns how the episode containing the TimeStep ended
func (t TimeStep) End() EndType {
	return t.endType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
