// Package algorithm implements learning algorithms that train value
// functions from environmental interaction.
//
// Algorithms observe transitions one at a time through Update. A
// transition records that taking an action in a state produced a
// reward and a next state, with done marking the end of an episode.
// When and how the value function is adjusted is up to the algorithm:
// Monte Carlo waits for the episode to complete, while bootstrapping
// algorithms may update on every transition.
//
// Algorithms train either a bare value function or the value function
// underlying a value-based policy. The model to train is resolved once
// at construction.
package algorithm

import (
	"gonum.org/v1/gonum/mat"
)

// Algorithm learns a value function from transitions
type Algorithm interface {
	Update(state, action mat.Vector, reward float64, nextState mat.Vector,
		done bool) error
}
