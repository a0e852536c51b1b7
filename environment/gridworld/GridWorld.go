package gridworld

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	env "github.com/rlenv/gridworld/environment"
	ts "github.com/rlenv/gridworld/timestep"
)

const (
	// TerminalReward is the reward for stepping onto the terminal cell
	TerminalReward float64 = 10.0

	// InvalidMovePenalty is the reward returned when the agent tries
	// to leave the grid or step onto a barrier. The move is rejected
	// and the agent stays where it is.
	InvalidMovePenalty float64 = -0.5
)

// Actions is the number of actions available in every gridworld
const Actions int = 4

// maxStartAttempts bounds how many times Reset resamples the Starter
// when it draws illegal start positions
const maxStartAttempts int = 100

// Action is a single directional gridworld action
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// target returns the cell that taking the action from c leads to. Up
// and Down change the row index by -1 and +1; Left and Right change
// the column index by -1 and +1.
func (a Action) target(c Coord) Coord {
	switch a {
	case Up:
		return Coord{Row: c.Row - 1, Col: c.Col}
	case Down:
		return Coord{Row: c.Row + 1, Col: c.Col}
	case Left:
		return Coord{Row: c.Row, Col: c.Col - 1}
	default:
		return Coord{Row: c.Row, Col: c.Col + 1}
	}
}

// obs returns the observation vector [row, col] for a cell
func obs(c Coord) *mat.VecDense {
	return mat.NewVecDense(2, []float64{float64(c.Row), float64(c.Col)})
}

// coordOf returns the cell that a 2-dimensional observation refers to
func coordOf(v mat.Vector) Coord {
	return Coord{Row: int(v.AtVec(0)), Col: int(v.AtVec(1))}
}

// GridWorld implements a finite 2D lattice of cells, each either
// traversable (with an associated reward) or a barrier. An agent moves
// through the grid one cell at a time towards the terminal cell of the
// Layout.
//
// State transitions are epsilon-noisy: a requested action is followed
// with probability 1-epsilon and otherwise replaced by an action drawn
// uniformly at random from all four actions. The replacement draw may
// re-select the requested action. All randomness comes from a single
// source seeded at construction, so runs are reproducible.
//
// The agent position is always a legal cell. A transition that would
// leave the grid or enter a barrier is rejected: the position does not
// change and the step returns InvalidMovePenalty instead of a cell
// reward.
//
// GridWorld implements the environment.Environment interface.
type GridWorld struct {
	env.Task
	layout  *Layout
	epsilon float64
	agent   Coord

	discount    float64
	currentStep ts.TimeStep

	follow distuv.Bernoulli   // follow-the-requested-action trial
	redraw distuv.Categorical // uniform replacement action
}

// New creates a new GridWorld on layout l with task t, exploration
// noise epsilon in [0, 1), and discount factor discount. All random
// draws of the environment derive from seed. The returned timestep is
// the first of the initial episode.
func New(l *Layout, t env.Task, epsilon, discount float64,
	seed uint64) (*GridWorld, ts.TimeStep, error) {
	if epsilon < 0 || epsilon >= 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: epsilon %v "+
			"∉ [0, 1)", epsilon)
	}

	if reach, ok := t.(*Reach); ok {
		reach.Register(l)
	}

	source := rand.NewSource(seed)
	weights := make([]float64, Actions)
	for i := range weights {
		weights[i] = 1.0 / float64(Actions)
	}

	g := &GridWorld{
		Task:     t,
		layout:   l,
		epsilon:  epsilon,
		discount: discount,
		follow:   distuv.Bernoulli{P: 1.0 - epsilon, Src: source},
		redraw:   distuv.NewCategorical(weights, source),
	}

	firstStep, err := g.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	return g, firstStep, nil
}

// Reset resets the environment between episodes. The agent position is
// drawn from the task's Starter; draws on illegal cells are rejected
// and redrawn, so that the position invariant holds from the first
// timestep on.
func (g *GridWorld) Reset() (ts.TimeStep, error) {
	agent := coordOf(g.Start())
	for i := 0; !g.layout.Traversable(agent); i++ {
		if i >= maxStartAttempts {
			return ts.TimeStep{}, fmt.Errorf("reset: no legal start "+
				"position after %d draws", maxStartAttempts)
		}
		agent = coordOf(g.Start())
	}

	g.agent = agent
	startStep := ts.New(ts.First, 0, g.discount, obs(agent), 0)
	g.currentStep = startStep

	return startStep, nil
}

// Step takes one environmental step given action a and returns the
// next timestep and a bool indicating whether or not the episode has
// ended. Actions are 1-dimensional and discrete:
//
//	Action	Meaning
//	  0		Move up
//	  1		Move down
//	  2		Move left
//	  3		Move right
//
// Actions outside this set are a caller contract violation and result
// in an error.
func (g *GridWorld) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be " +
			"1-dimensional")
	}

	action := Action(a.AtVec(0))
	if action < Up || action > Right {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ [0, %d)", a.AtVec(0), Actions)
	}

	// Exploration noise: with probability epsilon the requested action
	// is replaced by a uniformly random action, which may re-select
	// the requested one
	if g.follow.Rand() == 0 {
		action = Action(g.redraw.Rand())
	}

	// The candidate cell only becomes the new agent position if it is
	// legal; the reward for a rejected candidate is the invalid-move
	// penalty, computed by the Task from the raw candidate
	candidate := action.target(g.agent)
	if g.layout.Traversable(candidate) {
		g.agent = candidate
	}

	reward := g.GetReward(g.currentStep.Observation, a, obs(candidate))
	nextStep := ts.New(ts.Mid, reward, g.discount, obs(g.agent),
		g.currentStep.Number+1)
	last := g.End(&nextStep)

	g.currentStep = nextStep

	return nextStep, last, nil
}

// CurrentTimeStep returns the last timestep of the environment
func (g *GridWorld) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// Dims returns the number of rows and columns in the GridWorld
func (g *GridWorld) Dims() (rows, cols int) {
	return g.layout.Rows(), g.layout.Cols()
}

// Epsilon returns the exploration noise of the state transitions
func (g *GridWorld) Epsilon() float64 {
	return g.epsilon
}

// Position returns the current agent position
func (g *GridWorld) Position() Coord {
	return g.agent
}

// TerminalPosition returns the terminal cell of the GridWorld
func (g *GridWorld) TerminalPosition() Coord {
	return g.layout.Terminal()
}

// IsValid returns whether the agent may occupy c: the cell must be
// within the grid bounds and must not be a barrier
func (g *GridWorld) IsValid(c Coord) bool {
	return g.layout.Traversable(c)
}

// IsTerminal returns whether the current agent position is the
// terminal cell
func (g *GridWorld) IsTerminal() bool {
	return g.agent == g.layout.Terminal()
}

// ActionSet returns the actions available in the GridWorld
func (g *GridWorld) ActionSet() []Action {
	return []Action{Up, Down, Left, Right}
}

// Layout returns the static cell structure of the GridWorld, giving
// read access to the full reward and barrier layout
func (g *GridWorld) Layout() *Layout {
	return g.layout
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(Actions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GridWorld) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, []float64{0.0, 0.0})
	upperBound := mat.NewVecDense(2, []float64{
		float64(g.layout.Rows() - 1),
		float64(g.layout.Cols() - 1),
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the
// environment
func (g *GridWorld) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{g.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (g *GridWorld) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{g.Min()})
	upperBound := mat.NewVecDense(1, []float64{g.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// String returns a string representation of the environment
func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |  Goal: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.agent, g.layout.Terminal(), g.layout.Rows(),
		g.layout.Cols())
}
