package main

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gorl/algorithm"
	"github.com/samuelfneumann/gorl/environment/connectfour"
	"github.com/samuelfneumann/gorl/experiment"
	"github.com/samuelfneumann/gorl/experiment/trackers"
	"github.com/samuelfneumann/gorl/policy"
	"github.com/samuelfneumann/gorl/valuefn"
)

func main() {
	var seed uint64 = 192382

	// Create the environment with a uniform random adversary
	adversary, err := policy.NewRandom(7, seed)
	if err != nil {
		log.Fatalf("could not create adversary: %v", err)
	}

	env, err := connectfour.New(adversary, connectfour.DefaultConfig(), seed)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}

	features := env.ObservationSpec().Shape.Len()
	numActions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	// Create the value function and the greedy policy over its
	// predictions
	vf, err := valuefn.NewMultiHeadLinear(features, numActions, 0.01)
	if err != nil {
		log.Fatalf("could not create value function: %v", err)
	}

	player, err := policy.NewGreedy(vf)
	if err != nil {
		log.Fatalf("could not create policy: %v", err)
	}

	// Greedy selections of full columns fall back to a random
	// available column so that training never steps into an
	// unavailable action
	behaviour, err := connectfour.NewFallback(player, seed)
	if err != nil {
		log.Fatalf("could not create behaviour policy: %v", err)
	}

	// Create the learning algorithm. Training the policy trains its
	// underlying value function.
	mc, err := algorithm.NewMonteCarlo(player, 0.99)
	if err != nil {
		log.Fatalf("could not create algorithm: %v", err)
	}

	// Experiment
	tracker := trackers.NewReturn("./data.bin")
	e := experiment.NewOnline(env, behaviour, mc, 100_000, tracker)
	if err := e.Run(); err != nil {
		log.Fatalf("could not run experiment: %v", err)
	}
	if err := e.Save(); err != nil {
		log.Fatalf("could not save experiment data: %v", err)
	}

	data, err := trackers.LoadData("./data.bin")
	if err != nil {
		log.Fatalf("could not load experiment data: %v", err)
	}
	fmt.Println(data[len(data)-10:])

	// Show the final board
	fmt.Println(env)
	if err := env.Render("./board.png"); err != nil {
		log.Fatalf("could not render final board: %v", err)
	}
}
