// Package policy implements policies for selecting actions in states.
//
// A ValuePolicy selects actions based on the predictions of a value
// function and exposes that value function so that learning algorithms
// can train a policy by training its underlying value function.
package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorl/valuefn"
)

// Policy selects actions in states
type Policy interface {
	SelectAction(state mat.Vector) (*mat.VecDense, error)
}

// ValuePolicy is a Policy that selects actions based on the
// predictions of a value function
type ValuePolicy interface {
	Policy
	ValueFn() valuefn.ValueFn
}

// actionValues returns the predicted value of every action in a state
// as a vector indexed by action
func actionValues(vf valuefn.ValueFn, state mat.Vector) (*mat.VecDense,
	error) {
	X, err := vf.NextFeatures(state)
	if err != nil {
		return nil, fmt.Errorf("actionvalues: could not compute features: %v",
			err)
	}

	predictions, err := vf.Eval(X)
	if err != nil {
		return nil, fmt.Errorf("actionvalues: could not predict values: %v",
			err)
	}

	// TypeI value functions predict one row per action, TypeII value
	// functions one column per action
	switch vf.ModelType() {
	case valuefn.TypeI:
		return mat.NewVecDense(vf.NumActions(),
			mat.Col(nil, 0, predictions)), nil
	case valuefn.TypeII:
		return mat.NewVecDense(vf.NumActions(),
			mat.Row(nil, 0, predictions)), nil
	}
	return nil, fmt.Errorf("actionvalues: unknown model type %v",
		vf.ModelType())
}
