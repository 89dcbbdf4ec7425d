// Package environment outlines the interface that concrete
// environments implement.
//
// Environments follow the episodic convention: Reset starts a new
// episode and returns its first observation, and Step advances the
// episode by one action, returning the next observation, the reward
// for the transition, and whether the episode has ended. Observations
// are flat vectors so that they can be fed directly to value function
// approximators.
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Environment is a task that an agent interacts with through episodes
// of states, actions, and rewards
type Environment interface {
	// Reset resets the environment and returns the starting
	// observation of a new episode
	Reset() (*mat.VecDense, error)

	// Step takes one environmental step given an action and returns
	// the next observation, the reward, and whether the episode has
	// ended
	Step(action mat.Vector) (*mat.VecDense, float64, bool, error)

	ObservationSpec() Spec
	ActionSpec() Spec
}
