package main

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/rlenv/gridworld/environment/envconfig"
	"github.com/rlenv/gridworld/environment/gridworld"
)

func main() {
	var seed uint64 = 192382

	// Create the reference gridworld
	config := envconfig.Default()
	g, _, err := config.Create(seed)
	if err != nil {
		panic(err)
	}
	fmt.Println(g)

	// Drive the environment with a uniformly random behaviour policy
	rng := rand.New(rand.NewSource(seed))
	episodes := 5

	for episode := 0; episode < episodes; episode++ {
		var episodeReturn float64
		var step = g.CurrentTimeStep()
		last := false

		for !last {
			action := mat.NewVecDense(1, []float64{
				float64(rng.Intn(gridworld.Actions)),
			})

			step, last, err = g.Step(action)
			if err != nil {
				panic(err)
			}
			episodeReturn += step.Reward
		}

		fmt.Printf("Episode %d  |  Return: %.2f  |  Steps: %d  |  End: %v\n",
			episode, episodeReturn, step.Number, step.End())

		if _, err := g.Reset(); err != nil {
			panic(err)
		}
	}
}
