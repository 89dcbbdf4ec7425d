package valuefn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SingleHeadLinear is a TypeI linear value function approximator. A
// state-action pair is encoded as a block one-hot feature vector: the
// state vector is copied into the block indexed by the action, and all
// other blocks are zero. A single weight vector over these features
// then gives each action its own linear head, while predictions are
// always a single value per state-action pair.
type SingleHeadLinear struct {
	weights       *mat.VecDense
	numActions    int
	stateFeatures int
	learningRate  float64
}

// NewSingleHeadLinear returns a new SingleHeadLinear value function
// for states of length stateFeatures and actions in [0, numActions).
// Weights are initialized to 0.
func NewSingleHeadLinear(stateFeatures, numActions int,
	learningRate float64) (*SingleHeadLinear, error) {
	if stateFeatures <= 0 {
		return nil, fmt.Errorf("newsingleheadlinear: stateFeatures must be "+
			"positive \n\thave(%v)", stateFeatures)
	}
	if numActions <= 0 {
		return nil, fmt.Errorf("newsingleheadlinear: numActions must be "+
			"positive \n\thave(%v)", numActions)
	}

	return &SingleHeadLinear{
		weights:       mat.NewVecDense(stateFeatures*numActions, nil),
		numActions:    numActions,
		stateFeatures: stateFeatures,
		learningRate:  learningRate,
	}, nil
}

// ModelType returns the prediction interface of the value function
func (s *SingleHeadLinear) ModelType() ModelType {
	return TypeI
}

// NumActions returns the number of actions the value function predicts
// values for
func (s *SingleHeadLinear) NumActions() int {
	return s.numActions
}

// Features returns the block one-hot encoding of a state-action pair
// as a single-row matrix
func (s *SingleHeadLinear) Features(state, action mat.Vector) (*mat.Dense,
	error) {
	if state.Len() != s.stateFeatures {
		return nil, fmt.Errorf("features: invalid state length \n\twant(%v) "+
			"\n\thave(%v)", s.stateFeatures, state.Len())
	}
	if action == nil || action.Len() != 1 {
		return nil, fmt.Errorf("features: actions must be single dimensional")
	}

	a := int(action.AtVec(0))
	if a < 0 || a >= s.numActions {
		return nil, fmt.Errorf("features: action %v out of range [0, %v)", a,
			s.numActions)
	}

	row := make([]float64, s.stateFeatures*s.numActions)
	for i := 0; i < s.stateFeatures; i++ {
		row[a*s.stateFeatures+i] = state.AtVec(i)
	}
	return mat.NewDense(1, len(row), row), nil
}

// NextFeatures returns the feature matrix for evaluating every action
// in the given state, one row per action
func (s *SingleHeadLinear) NextFeatures(nextState mat.Vector) (*mat.Dense,
	error) {
	if nextState.Len() != s.stateFeatures {
		return nil, fmt.Errorf("nextfeatures: invalid state length "+
			"\n\twant(%v) \n\thave(%v)", s.stateFeatures, nextState.Len())
	}

	features := mat.NewDense(s.numActions, s.stateFeatures*s.numActions, nil)
	for a := 0; a < s.numActions; a++ {
		for i := 0; i < s.stateFeatures; i++ {
			features.Set(a, a*s.stateFeatures+i, nextState.AtVec(i))
		}
	}
	return features, nil
}

// Eval returns the predicted value of each row of X as a single-column
// matrix
func (s *SingleHeadLinear) Eval(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != s.weights.Len() {
		return nil, fmt.Errorf("eval: invalid number of features \n\twant(%v)"+
			" \n\thave(%v)", s.weights.Len(), cols)
	}

	predictions := mat.NewDense(rows, 1, nil)
	predictions.Mul(X, s.weights)
	return predictions, nil
}

// Update performs one step of stochastic gradient descent on the
// squared error between the predictions at X and the targets Y for
// each row of X
func (s *SingleHeadLinear) Update(X mat.Matrix, Y *mat.Dense) error {
	rows, cols := X.Dims()
	if cols != s.weights.Len() {
		return fmt.Errorf("update: invalid number of features \n\twant(%v) "+
			"\n\thave(%v)", s.weights.Len(), cols)
	}

	yRows, yCols := Y.Dims()
	if yRows != rows || yCols != 1 {
		return fmt.Errorf("update: invalid target size \n\twant(%vx%v) "+
			"\n\thave(%vx%v)", rows, 1, yRows, yCols)
	}

	predictions, err := s.Eval(X)
	if err != nil {
		return fmt.Errorf("update: could not predict values: %v", err)
	}

	for r := 0; r < rows; r++ {
		tdError := Y.At(r, 0) - predictions.At(r, 0)
		features := mat.NewVecDense(cols, mat.Row(nil, r, X))
		s.weights.AddScaledVec(s.weights, s.learningRate*tdError, features)
	}
	return nil
}
