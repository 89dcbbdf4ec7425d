package experiment

import (
	"fmt"
	"time"

	"github.com/samuelfneumann/progressbar"

	"github.com/samuelfneumann/gorl/algorithm"
	"github.com/samuelfneumann/gorl/environment"
	"github.com/samuelfneumann/gorl/experiment/trackers"
	"github.com/samuelfneumann/gorl/policy"
)

// Width in characters of the progress bar displayed by Run
const progressWidth int = 50

// Online is an Experiment that trains a learning algorithm online:
// every transition generated by following the policy in the
// environment is immediately fed to the algorithm. No offline
// evaluation is performed.
type Online struct {
	environment.Environment
	policy    policy.Policy
	algorithm algorithm.Algorithm

	maxSteps     uint
	currentSteps uint

	trackers []trackers.Tracker
	progress *progressbar.ProgressBar
}

// NewOnline creates and returns a new online experiment in which the
// policy p selects actions in environment e and the algorithm a learns
// from the resulting transitions. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter is a
// slice of trackers.Tracker which determine what data is saved.
func NewOnline(e environment.Environment, p policy.Policy,
	a algorithm.Algorithm, steps uint, t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		policy:      p,
		algorithm:   a,
		maxSteps:    steps,
		trackers:    t,
	}
}

// Register registers a trackers.Tracker with the Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether the maximum timestep limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	obs, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runepisode: could not reset "+
			"environment: %v", err)
	}
	o.track(0, 0.0, false)

	episodeSteps := 0
	done := false
	for !done && o.currentSteps < o.maxSteps {
		o.currentSteps++
		episodeSteps++
		if o.progress != nil {
			o.progress.Increment()
		}

		// Select an action and step in the environment
		action, err := o.policy.SelectAction(obs)
		if err != nil {
			return false, fmt.Errorf("runepisode: could not select "+
				"action: %v", err)
		}

		nextObs, reward, episodeDone, err := o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runepisode: could not step "+
				"environment: %v", err)
		}

		// Cache the environment step in each Tracker
		o.track(episodeSteps, reward, episodeDone)

		// Learn from the transition
		err = o.algorithm.Update(obs, action, reward, nextObs, episodeDone)
		if err != nil {
			return false, fmt.Errorf("runepisode: could not update "+
				"algorithm: %v", err)
		}

		obs = nextObs
		done = episodeDone
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps, displaying a
// progress bar on the terminal
func (o *Online) Run() error {
	o.progress = progressbar.New(progressWidth, int(o.maxSteps),
		time.Second, false)
	o.progress.Display()
	defer func() {
		o.progress.Close()
		o.progress = nil
	}()

	ended := false
	for !ended {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track caches the data of the current environmental step in each
// Tracker
func (o *Online) track(step int, reward float64, done bool) {
	for _, t := range o.trackers {
		t.Track(step, reward, done)
	}
}
