package timestep_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/rlenv/gridworld/timestep"
)

func TestStepTypePredicates(t *testing.T) {
	obs := mat.NewVecDense(2, nil)

	first := ts.New(ts.First, 0, 1, obs, 0)
	if !first.First() || first.Mid() || first.Last() {
		t.Error("First timestep misreports its step type")
	}

	mid := ts.New(ts.Mid, 0, 1, obs, 1)
	if mid.First() || !mid.Mid() || mid.Last() {
		t.Error("Mid timestep misreports its step type")
	}

	last := ts.New(ts.Last, 0, 1, obs, 2)
	if last.First() || last.Mid() || !last.Last() {
		t.Error("Last timestep misreports its step type")
	}
}

func TestEndType(t *testing.T) {
	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(2, nil), 1)
	if step.End() != ts.Nil {
		t.Errorf("new timestep end type = %v, want %v", step.End(), ts.Nil)
	}

	step.SetEnd(ts.TerminalStateReached)
	if step.End() != ts.TerminalStateReached {
		t.Errorf("end type = %v, want %v", step.End(),
			ts.TerminalStateReached)
	}
}
