package algorithm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorl/expcache"
	"github.com/samuelfneumann/gorl/policy"
	"github.com/samuelfneumann/gorl/valuefn"
)

// valueAlgorithm provides the operations shared by algorithms that
// learn a value function: resolving the value function to train from
// the model given at construction, adapting raw transitions into the
// value function's feature shapes, and constructing update targets.
type valueAlgorithm struct {
	valueFn valuefn.ValueFn
	gamma   float64
}

// newValueAlgorithm returns a new valueAlgorithm that trains model,
// which must be either a valuefn.ValueFn or a policy.ValuePolicy. A
// value-based policy is trained by training its underlying value
// function. The discount factor gamma must be in [0, 1].
//
// Errors are returned unwrapped so that exported constructors can
// record their own operation.
func newValueAlgorithm(model interface{}, gamma float64) (*valueAlgorithm,
	error) {
	if gamma < 0.0 || gamma > 1.0 {
		return nil, fmt.Errorf("discount factor must be in [0, 1] "+
			"\n\thave(%v)", gamma)
	}

	va := &valueAlgorithm{gamma: gamma}
	switch m := model.(type) {
	case policy.ValuePolicy:
		va.valueFn = m.ValueFn()
	case valuefn.ValueFn:
		va.valueFn = m
	default:
		return nil, errInvalidModel
	}
	return va, nil
}

// preprocessTransition adapts a raw transition into the feature shapes
// of the value function being trained. For a TypeI value function the
// feature matrix X encodes the state-action pair; for a TypeII value
// function it encodes the state alone. In both cases the transition
// carries the feature matrix for evaluating every action in the next
// state, so that bootstrapping algorithms can estimate the next
// state's value from the same cached transitions.
func (v *valueAlgorithm) preprocessTransition(state, action mat.Vector,
	reward float64, nextState mat.Vector) (expcache.Transition, error) {
	var X *mat.Dense
	var err error

	switch v.valueFn.ModelType() {
	case valuefn.TypeI:
		X, err = v.valueFn.Features(state, action)
	case valuefn.TypeII:
		X, err = v.valueFn.Features(state, nil)
	default:
		return expcache.Transition{}, &AlgorithmError{
			Op:  "preprocesstransition",
			Err: errUnknownModelType,
		}
	}
	if err != nil {
		return expcache.Transition{}, fmt.Errorf("preprocesstransition: "+
			"could not compute features: %v", err)
	}

	XNext, err := v.valueFn.NextFeatures(nextState)
	if err != nil {
		return expcache.Transition{}, fmt.Errorf("preprocesstransition: "+
			"could not compute next state features: %v", err)
	}

	return expcache.Transition{
		X:     X,
		A:     mat.VecDenseCopyOf(action),
		R:     mat.NewVecDense(1, []float64{reward}),
		XNext: XNext,
	}, nil
}

// updateTarget constructs the matrix of target values for updating the
// value function at the feature matrix X, where the actions A received
// the return estimate g. For a TypeI value function every row's target
// is g. For a TypeII value function the targets are the current
// predictions at X with each row's entry for the corresponding action
// in A overwritten by g, so that only the selected actions' values are
// adjusted by the update.
func (v *valueAlgorithm) updateTarget(X *mat.Dense, A *mat.VecDense,
	g float64) (*mat.Dense, error) {
	rows, _ := X.Dims()

	switch v.valueFn.ModelType() {
	case valuefn.TypeI:
		Y := mat.NewDense(rows, 1, nil)
		for r := 0; r < rows; r++ {
			Y.Set(r, 0, g)
		}
		return Y, nil

	case valuefn.TypeII:
		if A.Len() != rows {
			return nil, fmt.Errorf("updatetarget: one action per feature "+
				"row required \n\twant(%v) \n\thave(%v)", rows, A.Len())
		}

		Y, err := v.valueFn.Eval(X)
		if err != nil {
			return nil, fmt.Errorf("updatetarget: could not predict "+
				"values: %v", err)
		}
		for r := 0; r < rows; r++ {
			Y.Set(r, int(A.AtVec(r)), g)
		}
		return Y, nil
	}

	return nil, &AlgorithmError{Op: "updatetarget", Err: errUnknownModelType}
}
