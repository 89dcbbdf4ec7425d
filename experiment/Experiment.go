// Package experiment implements functionality for running an
// experiment: repeatedly selecting actions with a policy, stepping an
// environment, and feeding the resulting transitions to a learning
// algorithm.
//
// Experiments track data through trackers.Tracker values. Each
// environmental step is sent to every registered Tracker, which caches
// the data it is interested in. The Save() method then takes all
// cached data and saves it to disk, usually after the experiment has
// been run. New Trackers can be registered with an Experiment through
// the constructor or through the Register() method.
package experiment

import (
	"github.com/samuelfneumann/gorl/experiment/trackers"
)

// Experiment runs episodes of policy-environment interaction and
// tracks the data they generate. The Run() method runs all episodes
// until the maximum timestep limit is reached. The RunEpisode() method
// runs a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was hit

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment. Useful to track data only after a specified event.
	Register(t trackers.Tracker)
}
