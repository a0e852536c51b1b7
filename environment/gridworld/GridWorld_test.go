package gridworld_test

import (
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/rlenv/gridworld/environment/gridworld"
	ts "github.com/rlenv/gridworld/timestep"
)

func action(a gridworld.Action) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}

// newReferenceEnv builds a GridWorld on the 5x5 reference layout with
// start (0, 0), exploration noise epsilon, and no episode cutoff
func newReferenceEnv(t *testing.T, epsilon float64,
	seed uint64) *gridworld.GridWorld {
	t.Helper()

	layout := referenceLayout(t)
	starter, err := gridworld.NewSingleStart(gridworld.XY(0, 0),
		layout.Rows(), layout.Cols())
	if err != nil {
		t.Fatalf("newSingleStart: %v", err)
	}

	task := gridworld.NewReach(starter, 0, gridworld.InvalidMovePenalty)
	g, _, err := gridworld.New(layout, task, epsilon, 1.0, seed)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g
}

// newOpenEnv builds a barrier-free 5x5 GridWorld with terminal (0, 4),
// a negative cell at row 1 column 2, and the argument start cell
func newOpenEnv(t *testing.T, start gridworld.Coord, epsilon float64,
	seed uint64) *gridworld.GridWorld {
	t.Helper()

	layout, err := gridworld.NewLayout(5, 5, gridworld.XY(4, 0),
		gridworld.TerminalReward,
		[]gridworld.CellReward{{Cell: gridworld.XY(2, 1), Reward: -1}}, nil)
	if err != nil {
		t.Fatalf("newLayout: %v", err)
	}

	starter, err := gridworld.NewSingleStart(start, 5, 5)
	if err != nil {
		t.Fatalf("newSingleStart: %v", err)
	}

	task := gridworld.NewReach(starter, 0, gridworld.InvalidMovePenalty)
	g, _, err := gridworld.New(layout, task, epsilon, 1.0, seed)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g
}

func TestNewRejectsBadEpsilon(t *testing.T) {
	layout := referenceLayout(t)
	starter, err := gridworld.NewSingleStart(gridworld.XY(0, 0), 5, 5)
	if err != nil {
		t.Fatalf("newSingleStart: %v", err)
	}

	for _, epsilon := range []float64{-0.1, 1.0, 1.5} {
		task := gridworld.NewReach(starter, 0, gridworld.InvalidMovePenalty)
		_, _, err := gridworld.New(layout, task, epsilon, 1.0, 14)
		if err == nil {
			t.Errorf("epsilon %v: expected configuration error", epsilon)
		}
	}
}

func TestZeroEpsilonFollowsRequestedAction(t *testing.T) {
	// With zero exploration noise every step applies exactly the
	// requested action's delta
	start := gridworld.Coord{Row: 2, Col: 2}
	tests := []struct {
		action gridworld.Action
		want   gridworld.Coord
	}{
		{gridworld.Up, gridworld.Coord{Row: 1, Col: 2}},
		{gridworld.Down, gridworld.Coord{Row: 3, Col: 2}},
		{gridworld.Left, gridworld.Coord{Row: 2, Col: 1}},
		{gridworld.Right, gridworld.Coord{Row: 2, Col: 3}},
	}

	g := newOpenEnv(t, start, 0.0, 42)
	for _, test := range tests {
		if _, _, err := g.Step(action(test.action)); err != nil {
			t.Fatalf("step: %v", err)
		}
		if got := g.Position(); got != test.want {
			t.Errorf("%v from %v: position = %v, want %v", test.action,
				start, got, test.want)
		}
		if _, err := g.Reset(); err != nil {
			t.Fatalf("reset: %v", err)
		}
	}
}

func TestEdgeMoveRejected(t *testing.T) {
	// Up from row 0 leaves the grid: position unchanged, penalty
	// reward
	g := newOpenEnv(t, gridworld.Coord{Row: 0, Col: 0}, 0.0, 42)

	step, last, err := g.Step(action(gridworld.Up))
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	if step.Reward != gridworld.InvalidMovePenalty {
		t.Errorf("reward = %v, want %v", step.Reward,
			gridworld.InvalidMovePenalty)
	}
	if got := g.Position(); got != (gridworld.Coord{Row: 0, Col: 0}) {
		t.Errorf("position = %v, want (0, 0)", got)
	}
	if last {
		t.Error("rejected move should not end the episode")
	}
}

func TestBarrierMoveRejected(t *testing.T) {
	// The reference grid has a barrier at row 0 column 2. Stepping
	// right from (0, 1) is rejected with the penalty reward.
	g := newReferenceEnv(t, 0.0, 42)

	if _, _, err := g.Step(action(gridworld.Right)); err != nil {
		t.Fatalf("step: %v", err)
	}

	step, _, err := g.Step(action(gridworld.Right))
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	if step.Reward != gridworld.InvalidMovePenalty {
		t.Errorf("reward = %v, want %v", step.Reward,
			gridworld.InvalidMovePenalty)
	}
	if got := g.Position(); got != (gridworld.Coord{Row: 0, Col: 1}) {
		t.Errorf("position = %v, want (0, 1)", got)
	}
}

func TestNegativeCellReward(t *testing.T) {
	// Walk onto the reference grid's negative cell at row 1 column 2
	g := newReferenceEnv(t, 0.0, 42)

	path := []gridworld.Action{gridworld.Down, gridworld.Right,
		gridworld.Right}
	var step ts.TimeStep
	var err error
	for _, a := range path {
		step, _, err = g.Step(action(a))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	if step.Reward != -1 {
		t.Errorf("reward = %v, want -1", step.Reward)
	}
	if got := g.Position(); got != (gridworld.Coord{Row: 1, Col: 2}) {
		t.Errorf("position = %v, want (1, 2)", got)
	}
}

func TestReachTerminal(t *testing.T) {
	// Stepping right four times from (0, 0) with epsilon 0 and no
	// barriers in the path reaches the terminal on the fourth call
	g := newOpenEnv(t, gridworld.Coord{Row: 0, Col: 0}, 0.0, 42)

	for i := 0; i < 3; i++ {
		step, last, err := g.Step(action(gridworld.Right))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if step.Reward != 0 {
			t.Errorf("step %d: reward = %v, want 0", i, step.Reward)
		}
		if last || g.IsTerminal() {
			t.Errorf("step %d: episode should not have ended", i)
		}
	}

	step, last, err := g.Step(action(gridworld.Right))
	if err != nil {
		t.Fatalf("step: %v", err)
	}

	if step.Reward != gridworld.TerminalReward {
		t.Errorf("reward = %v, want %v", step.Reward,
			gridworld.TerminalReward)
	}
	if !last || !step.Last() {
		t.Error("fourth step should end the episode")
	}
	if !g.IsTerminal() {
		t.Error("agent should be at the terminal cell")
	}
	if step.End() != ts.TerminalStateReached {
		t.Errorf("end type = %v, want %v", step.End(),
			ts.TerminalStateReached)
	}
	if !g.AtGoal(step.Observation) {
		t.Error("AtGoal should report the terminal observation")
	}
}

func TestReset(t *testing.T) {
	start := gridworld.Coord{Row: 0, Col: 0}
	g := newOpenEnv(t, start, 0.0, 42)

	// Drive the agent to the terminal, then reset
	for i := 0; i < 4; i++ {
		if _, _, err := g.Step(action(gridworld.Right)); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !g.IsTerminal() {
		t.Fatal("agent should be at the terminal cell")
	}

	step, err := g.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	if !step.First() {
		t.Error("reset should return a First timestep")
	}
	if got := g.Position(); got != start {
		t.Errorf("position = %v, want %v", got, start)
	}
	if g.IsTerminal() {
		t.Error("agent should no longer be at the terminal cell")
	}

	// Reset is idempotent
	if _, err := g.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := g.Position(); got != start {
		t.Errorf("position after second reset = %v, want %v", got, start)
	}
}

func TestIllegalActions(t *testing.T) {
	g := newReferenceEnv(t, 0.0, 42)

	for _, a := range []float64{-1, 4, 7} {
		_, _, err := g.Step(mat.NewVecDense(1, []float64{a}))
		if err == nil {
			t.Errorf("action %v: expected invalid-argument error", a)
		}
	}

	_, _, err := g.Step(mat.NewVecDense(2, []float64{0, 1}))
	if err == nil {
		t.Error("2-dimensional action: expected invalid-argument error")
	}
}

func TestPositionAlwaysValid(t *testing.T) {
	// After any sequence of steps with exploration noise, the agent
	// position satisfies the validity invariant and every reward comes
	// from the defined reward set
	g := newReferenceEnv(t, 0.5, 1923)
	rng := rand.New(rand.NewSource(1923))

	rewards := map[float64]bool{
		0:                            true,
		-1:                           true,
		gridworld.TerminalReward:     true,
		gridworld.InvalidMovePenalty: true,
	}

	for i := 0; i < 1000; i++ {
		a := gridworld.Action(rng.Intn(gridworld.Actions))
		step, last, err := g.Step(action(a))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		if !g.IsValid(g.Position()) {
			t.Fatalf("step %d: position %v is not a legal cell", i,
				g.Position())
		}
		if !rewards[step.Reward] {
			t.Fatalf("step %d: unexpected reward %v", i, step.Reward)
		}

		if last {
			if _, err := g.Reset(); err != nil {
				t.Fatalf("reset: %v", err)
			}
		}
	}
}

func TestStepLimit(t *testing.T) {
	// With an episode cutoff, episodes that never reach the terminal
	// are cut off with end type Timeout
	layout := referenceLayout(t)
	starter, err := gridworld.NewSingleStart(gridworld.XY(0, 0), 5, 5)
	if err != nil {
		t.Fatalf("newSingleStart: %v", err)
	}

	cutoff := 3
	task := gridworld.NewReach(starter, cutoff, gridworld.InvalidMovePenalty)
	g, _, err := gridworld.New(layout, task, 0.0, 1.0, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var step ts.TimeStep
	var last bool
	for i := 0; i < cutoff; i++ {
		step, last, err = g.Step(action(gridworld.Down))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	if !last || !step.Last() {
		t.Errorf("episode should be cut off after %d steps", cutoff)
	}
	if step.End() != ts.Timeout {
		t.Errorf("end type = %v, want %v", step.End(), ts.Timeout)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	// Two environments with the same seed see identical trajectories
	first := newReferenceEnv(t, 0.5, 87)
	second := newReferenceEnv(t, 0.5, 87)

	actions := []gridworld.Action{gridworld.Right, gridworld.Down,
		gridworld.Down, gridworld.Right, gridworld.Up, gridworld.Left}
	for _, a := range actions {
		if _, _, err := first.Step(action(a)); err != nil {
			t.Fatalf("step: %v", err)
		}
		if _, _, err := second.Step(action(a)); err != nil {
			t.Fatalf("step: %v", err)
		}
		if first.Position() != second.Position() {
			t.Fatalf("positions diverged: %v != %v", first.Position(),
				second.Position())
		}
	}
}

func TestSpecs(t *testing.T) {
	g := newReferenceEnv(t, 0.1, 42)

	actionSpec := g.ActionSpec()
	if got := actionSpec.UpperBound.AtVec(0); got != float64(gridworld.Actions-1) {
		t.Errorf("action upper bound = %v, want %v", got,
			gridworld.Actions-1)
	}

	obsSpec := g.ObservationSpec()
	if got := obsSpec.Shape.Len(); got != 2 {
		t.Errorf("observation shape length = %v, want 2", got)
	}

	rewardSpec := g.RewardSpec()
	if got := rewardSpec.LowerBound.AtVec(0); got != -1 {
		t.Errorf("reward lower bound = %v, want -1", got)
	}
	if got := rewardSpec.UpperBound.AtVec(0); got != gridworld.TerminalReward {
		t.Errorf("reward upper bound = %v, want %v", got,
			gridworld.TerminalReward)
	}
}

func TestAccessors(t *testing.T) {
	g := newReferenceEnv(t, 0.1, 42)

	if rows, cols := g.Dims(); rows != 5 || cols != 5 {
		t.Errorf("dims = (%d, %d), want (5, 5)", rows, cols)
	}
	if got := g.Epsilon(); got != 0.1 {
		t.Errorf("epsilon = %v, want 0.1", got)
	}
	if got := g.TerminalPosition(); got != (gridworld.Coord{Row: 0, Col: 4}) {
		t.Errorf("terminal = %v, want (0, 4)", got)
	}
	if got := len(g.ActionSet()); got != gridworld.Actions {
		t.Errorf("action set size = %v, want %v", got, gridworld.Actions)
	}
}
