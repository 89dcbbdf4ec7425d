package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
//
// Note: an episode must finish for this Tracker to save its data. If
// the last episode in an experiment does not finish, that episode's
// length is not saved.
type EpisodeLength struct {
	// Lengths are stored as float64 so that LoadData can decode any
	// Tracker's file
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker that saves its
// data at filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length when the step passed to it is the
// last step in its episode
func (e *EpisodeLength) Track(step int, reward float64, done bool) {
	if done {
		e.episodeLengths = append(e.episodeLengths, float64(step))
	}
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	file, err := os.Create(e.filename)
	if err != nil {
		return fmt.Errorf("save: could not create save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(e.episodeLengths); err != nil {
		return fmt.Errorf("save: could not encode episode length data: %v",
			err)
	}
	return nil
}
