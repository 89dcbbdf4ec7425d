package connectfour

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gorl/policy"
)

// Fallback wraps a policy playing Connect Four so that it never
// selects a full column. Selections of available columns pass through
// unchanged, while a selection of a full column is replaced by a
// uniformly random available column, mirroring the fallback the
// environment applies to its adversary's selections.
//
// A Greedy policy over a value function knows nothing about column
// fill levels, so driving an experiment with it directly eventually
// steps into a full column and ends the run with an unavailable action
// error. Wrapping such a policy in a Fallback keeps every selection
// available.
type Fallback struct {
	wrapped policy.Policy
	source  rand.Source
}

// NewFallback returns a new Fallback policy around wrapped, using seed
// to seed the fallback column selection
func NewFallback(wrapped policy.Policy, seed uint64) (*Fallback, error) {
	if wrapped == nil {
		return nil, fmt.Errorf("newfallback: no policy to select actions " +
			"from")
	}
	return &Fallback{wrapped: wrapped, source: rand.NewSource(seed)}, nil
}

// SelectAction returns the wrapped policy's selection when its column
// still has an empty cell and a uniformly random available column
// otherwise. The state must be a Connect Four observation, whose first
// numCols entries are the board's top row: a column is available
// exactly when its top cell is empty.
func (f *Fallback) SelectAction(state mat.Vector) (*mat.VecDense, error) {
	action, err := f.wrapped.SelectAction(state)
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	a := int(action.AtVec(0))
	if a >= 0 && a < numCols && state.AtVec(a) == 0.0 {
		return action, nil
	}

	available := 0
	weights := make([]float64, numCols)
	for j := 0; j < numCols; j++ {
		if state.AtVec(j) == 0.0 {
			weights[j] = 1.0
			available++
		}
	}
	if available == 0 {
		// A full board means the episode has already ended; leave the
		// selection for the environment to reject
		return action, nil
	}

	column := distuv.NewCategorical(weights, f.source).Rand()
	return mat.NewVecDense(1, []float64{column}), nil
}
