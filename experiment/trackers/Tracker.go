// Package trackers implements Trackers, which track and save data
// generated while an experiment runs
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished. Track is called once per environmental
// step with the step's number within its episode, the reward received,
// and whether the step ended the episode.
type Tracker interface {
	Track(step int, reward float64, done bool)
	Save() error
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaddata: could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loaddata: could not decode data: %v", err)
	}
	return data, nil
}
