// Package expcache implements an experience cache: a last-in first-out
// store of preprocessed transitions accumulated over an episode.
//
// Unlike an experience replay buffer, which samples past transitions
// to break temporal correlation, an experience cache preserves exact
// reverse ordering. Algorithms that propagate values backward through
// an episode, such as Monte Carlo updates, push transitions as they
// occur and pop them back terminal-first once the episode ends.
package expcache

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single preprocessed transition. X holds the
// feature matrix of the visited state or state-action pair, A the
// selected action, R the received reward, and XNext the feature matrix
// for evaluating every action in the next state.
type Transition struct {
	X     *mat.Dense
	A     *mat.VecDense
	R     *mat.VecDense
	XNext *mat.Dense
}

// OverflowPolicy determines how a Cache behaves when a transition is
// added beyond the cache's current capacity
type OverflowPolicy int

const (
	// Grow caches have no fixed capacity. Adding a transition always
	// succeeds, with the backing storage growing as needed.
	Grow OverflowPolicy = iota
)

// String returns the string representation of an OverflowPolicy
func (o OverflowPolicy) String() string {
	switch o {
	case Grow:
		return "Grow"
	}
	return "InvalidOverflowPolicy"
}

// Cache is a last-in first-out experience cache. The shapes of the
// first transition added fix the shapes the cache accepts: transitions
// with differently shaped components are rejected.
type Cache struct {
	transitions []Transition
	overflow    OverflowPolicy

	// Component shapes of the first transition added
	xRows, xCols         int
	xNextRows, xNextCols int
	aLen, rLen           int
}

// New returns a new, empty Cache with the given OverflowPolicy
func New(overflow OverflowPolicy) (*Cache, error) {
	if overflow != Grow {
		return nil, fmt.Errorf("new: unknown overflow policy: %v", overflow)
	}

	return &Cache{
		transitions: make([]Transition, 0),
		overflow:    overflow,
	}, nil
}

// Add stores a transition in the cache. The first transition added
// determines the component shapes that all later transitions must
// have.
func (c *Cache) Add(t Transition) error {
	if t.X == nil || t.A == nil || t.R == nil || t.XNext == nil {
		return &CacheError{
			Op:  "add",
			Err: errors.New("nil transition component"),
		}
	}

	xRows, xCols := t.X.Dims()
	xNextRows, xNextCols := t.XNext.Dims()

	if len(c.transitions) == 0 {
		c.xRows, c.xCols = xRows, xCols
		c.xNextRows, c.xNextCols = xNextRows, xNextCols
		c.aLen, c.rLen = t.A.Len(), t.R.Len()
	} else {
		if xRows != c.xRows || xCols != c.xCols {
			return &CacheError{
				Op: "add",
				Err: fmt.Errorf("invalid feature matrix size \n\twant(%vx%v)"+
					" \n\thave(%vx%v)", c.xRows, c.xCols, xRows, xCols),
			}
		}
		if xNextRows != c.xNextRows || xNextCols != c.xNextCols {
			return &CacheError{
				Op: "add",
				Err: fmt.Errorf("invalid next feature matrix size "+
					"\n\twant(%vx%v) \n\thave(%vx%v)", c.xNextRows,
					c.xNextCols, xNextRows, xNextCols),
			}
		}
		if t.A.Len() != c.aLen {
			return &CacheError{
				Op: "add",
				Err: fmt.Errorf("invalid action size \n\twant(%v) "+
					"\n\thave(%v)", c.aLen, t.A.Len()),
			}
		}
		if t.R.Len() != c.rLen {
			return &CacheError{
				Op: "add",
				Err: fmt.Errorf("invalid reward size \n\twant(%v) "+
					"\n\thave(%v)", c.rLen, t.R.Len()),
			}
		}
	}

	c.transitions = append(c.transitions, t)
	return nil
}

// Pop removes and returns the most recently added transition
func (c *Cache) Pop() (Transition, error) {
	if len(c.transitions) == 0 {
		return Transition{}, &CacheError{
			Op:  "pop",
			Err: errEmptyCache,
		}
	}

	last := len(c.transitions) - 1
	t := c.transitions[last]
	c.transitions[last] = Transition{}
	c.transitions = c.transitions[:last]
	return t, nil
}

// Len returns the number of transitions currently in the cache
func (c *Cache) Len() int {
	return len(c.transitions)
}
