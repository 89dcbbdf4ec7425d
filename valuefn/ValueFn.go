// Package valuefn implements value function approximators. A value
// function predicts the expected return of states or state-action
// pairs and can be adjusted toward target values computed by a
// learning algorithm.
//
// Value functions come in two kinds, distinguished by their ModelType.
// A TypeI value function maps a state-action pair to a single value.
// A TypeII value function maps a state to a vector of values, one per
// action. Learning algorithms branch on the ModelType to construct
// feature matrices and update targets of the right shape, so any
// approximator implementing ValueFn can be dropped into any algorithm.
package valuefn

import (
	"gonum.org/v1/gonum/mat"
)

// ModelType describes the prediction interface of a value function
type ModelType int

const (
	// TypeI value functions predict a single value for a state-action
	// pair
	TypeI ModelType = iota + 1

	// TypeII value functions predict one value per action for a state
	TypeII
)

// String returns the string representation of a ModelType
func (m ModelType) String() string {
	switch m {
	case TypeI:
		return "TypeI"
	case TypeII:
		return "TypeII"
	}
	return "InvalidModelType"
}

// ValueFn represents a value function approximator
//
// Features and NextFeatures construct the feature matrices that Eval
// and Update consume. For a TypeI value function, Features encodes a
// single (state, action) pair as one row, and NextFeatures returns one
// row per action so that every action's value can be predicted in the
// next state. For a TypeII value function, the action argument of
// Features is ignored and may be nil, and NextFeatures is equivalent
// to Features on the next state.
//
// Eval returns one row of predictions per row of X: a single column
// for TypeI value functions and one column per action for TypeII
// value functions. Update adjusts the approximator toward the targets
// Y, which must have the same shape as the predictions of Eval on X.
type ValueFn interface {
	ModelType() ModelType
	NumActions() int
	Features(state, action mat.Vector) (*mat.Dense, error)
	NextFeatures(nextState mat.Vector) (*mat.Dense, error)
	Eval(X mat.Matrix) (*mat.Dense, error)
	Update(X mat.Matrix, Y *mat.Dense) error
}
