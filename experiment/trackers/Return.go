package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Return tracks and saves the episodic return in an experiment. The
// reward of every step is accumulated into the return of the episode
// the step belongs to, and a new episode's rewards are accumulated
// separately as soon as the previous episode ends.
//
// Note: an episode must finish for this Tracker to save its data. If
// the last episode in an experiment does not finish, that episode's
// return is not saved.
type Return struct {
	lastStep       int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new Return Tracker that saves its
// data at filename
func NewReturn(filename string) *Return {
	return &Return{
		lastStep: -1,
		filename: filename,
	}
}

// Track accumulates the reward of a step into the current episode's
// return, caching the return when the episode finishes.
//
// Track panics if it is called on non-sequential steps
func (r *Return) Track(step int, reward float64, done bool) {
	if r.lastStep+1 != step {
		panic(fmt.Sprintf("track: steps tracked are not sequential: "+
			"step %v --> step %v", r.lastStep, step))
	}

	r.currentReturn += reward
	if !done {
		r.lastStep = step
		return
	}

	// The episode has ended: cache its return and begin tracking the
	// return of a new episode
	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastStep = -1
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	file, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("save: could not create save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(r.episodeReturns); err != nil {
		return fmt.Errorf("save: could not encode return data: %v", err)
	}
	return nil
}
