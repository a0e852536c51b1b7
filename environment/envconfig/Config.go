// Package envconfig provides configuration structs for constructing
// gridworld environments from declarative inputs. Configurations in
// this package are JSON serializable.
//
// Configuration coordinates use the (x, y) convention for convenience;
// they are converted to the internal (row, column) convention exactly
// once, when the environment is created.
package envconfig

import (
	"fmt"

	env "github.com/rlenv/gridworld/environment"
	"github.com/rlenv/gridworld/environment/gridworld"
	ts "github.com/rlenv/gridworld/timestep"
)

// Cell identifies a grid cell by its x (column) and y (row) position
type Cell struct {
	X int
	Y int
}

// CellReward assigns a reward value to a single grid cell
type CellReward struct {
	X      int
	Y      int
	Reward float64
}

// Config implements a specific configuration of a gridworld
// environment and its task
type Config struct {
	// Width and Height are the grid dimensions
	Width  int
	Height int

	// Epsilon is the probability that an action is replaced by a
	// uniformly random action before it is executed
	Epsilon float64

	// Discount is the discount factor of the environment
	Discount float64

	// Start is the agent's initial cell. It is ignored when
	// RandomStart is set.
	Start Cell

	// Terminal is the goal cell, rewarded with
	// gridworld.TerminalReward
	Terminal Cell

	// NegativeRewards lists cells holding negative reward values
	NegativeRewards []CellReward

	// Barriers lists cells the agent can never occupy
	Barriers []Cell

	// EpisodeCutoff bounds episode length when positive
	EpisodeCutoff int

	// RandomStart starts each episode at a uniformly random legal
	// cell instead of Start
	RandomStart bool
}

// Default returns the reference gridworld configuration, a 5x5 grid
// with start s, terminal reward 10, negative reward cells -1, and
// barriers X:
//
//	 s  0  X  0 10
//	 0  0 -1  0  0
//	 0  X  0  0  0
//	 0  0  X  0  0
//	-1  0  0  0 -1
func Default() Config {
	return Config{
		Width:    5,
		Height:   5,
		Epsilon:  0.1,
		Discount: 0.99,
		Start:    Cell{X: 0, Y: 0},
		Terminal: Cell{X: 4, Y: 0},
		NegativeRewards: []CellReward{
			{X: 0, Y: 4, Reward: -1},
			{X: 2, Y: 1, Reward: -1},
			{X: 4, Y: 4, Reward: -1},
		},
		Barriers: []Cell{
			{X: 1, Y: 2},
			{X: 2, Y: 0},
			{X: 2, Y: 3},
		},
		EpisodeCutoff: 500,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. All randomness of the
// environment derives from seed.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	negative := make([]gridworld.CellReward, len(c.NegativeRewards))
	for i, n := range c.NegativeRewards {
		negative[i] = gridworld.CellReward{
			Cell:   gridworld.XY(n.X, n.Y),
			Reward: n.Reward,
		}
	}

	barriers := make([]gridworld.Coord, len(c.Barriers))
	for i, b := range c.Barriers {
		barriers[i] = gridworld.XY(b.X, b.Y)
	}

	layout, err := gridworld.NewLayout(c.Height, c.Width,
		gridworld.XY(c.Terminal.X, c.Terminal.Y), gridworld.TerminalReward,
		negative, barriers)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	var starter env.Starter
	if c.RandomStart {
		starter = env.NewCategoricalStarter([]int{c.Height, c.Width}, seed)
	} else {
		starter, err = gridworld.NewSingleStart(
			gridworld.XY(c.Start.X, c.Start.Y), c.Height, c.Width)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
		}
	}

	task := gridworld.NewReach(starter, c.EpisodeCutoff,
		gridworld.InvalidMovePenalty)

	g, firstStep, err := gridworld.New(layout, task, c.Epsilon, c.Discount,
		seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	return g, firstStep, nil
}
