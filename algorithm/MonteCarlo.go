package algorithm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorl/expcache"
)

// MonteCarlo learns a value function from complete episodes. Each
// transition of an episode is preprocessed and cached as it occurs.
// When a terminal transition arrives, the episode is replayed
// backward: the discounted return is accumulated from the terminal
// reward toward the episode's start, and the value function is updated
// once per cached transition in that order.
type MonteCarlo struct {
	*valueAlgorithm
	cache *expcache.Cache
}

// NewMonteCarlo returns a new MonteCarlo algorithm that trains model
// with discount factor gamma. The model must be either a
// valuefn.ValueFn or a policy.ValuePolicy; a value-based policy is
// trained by training its underlying value function. The discount
// factor must be in [0, 1].
func NewMonteCarlo(model interface{}, gamma float64) (*MonteCarlo, error) {
	va, err := newValueAlgorithm(model, gamma)
	if err != nil {
		return nil, &AlgorithmError{Op: "newmontecarlo", Err: err}
	}

	cache, err := expcache.New(expcache.Grow)
	if err != nil {
		return nil, fmt.Errorf("newmontecarlo: could not create experience "+
			"cache: %v", err)
	}

	return &MonteCarlo{valueAlgorithm: va, cache: cache}, nil
}

// Update performs one step of the Monte Carlo algorithm on the
// transition (state, action, reward, nextState). Transitions are
// cached until done is true, at which point the value function is
// updated once per cached transition, starting at the terminal
// transition and working backward to the episode's first.
//
// The cache is drained only by a terminal update. An episode abandoned
// before its terminal transition leaves its transitions cached, and a
// later terminal update would replay them as part of that episode, so
// every episode fed to a MonteCarlo must run to termination.
func (m *MonteCarlo) Update(state, action mat.Vector, reward float64,
	nextState mat.Vector, done bool) error {
	transition, err := m.preprocessTransition(state, action, reward,
		nextState)
	if err != nil {
		return err
	}
	if err := m.cache.Add(transition); err != nil {
		return fmt.Errorf("update: could not cache transition: %v", err)
	}

	if !done {
		return nil
	}

	// The episode is complete: replay it backward, accumulating the
	// discounted return and fitting the value function at each step
	g := 0.0
	for m.cache.Len() > 0 {
		t, err := m.cache.Pop()
		if err != nil {
			return fmt.Errorf("update: could not pop transition: %v", err)
		}

		g = t.R.AtVec(0) + m.gamma*g
		Y, err := m.updateTarget(t.X, t.A, g)
		if err != nil {
			return err
		}
		if err := m.valueFn.Update(t.X, Y); err != nil {
			return fmt.Errorf("update: could not update value function: %v",
				err)
		}
	}
	return nil
}
