package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects actions uniformly at random, ignoring the state. It
// serves as a learning baseline and as a simple adversary policy.
type Random struct {
	actions distuv.Categorical
}

// NewRandom returns a new Random policy over numActions actions, using
// seed to seed the action distribution
func NewRandom(numActions int, seed uint64) (*Random, error) {
	if numActions <= 0 {
		return nil, fmt.Errorf("newrandom: numActions must be positive "+
			"\n\thave(%v)", numActions)
	}

	weights := make([]float64, numActions)
	for i := range weights {
		weights[i] = 1.0
	}

	source := rand.NewSource(seed)
	return &Random{actions: distuv.NewCategorical(weights, source)}, nil
}

// SelectAction returns an action selected uniformly at random
func (r *Random) SelectAction(state mat.Vector) (*mat.VecDense, error) {
	return mat.NewVecDense(1, []float64{r.actions.Rand()}), nil
}
