package valuefn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MultiHeadLinear is a TypeII linear value function approximator.
// States are used directly as features, and each action has its own
// head: a row of the weight matrix. Predictions for a state are the
// values of all actions in that state.
type MultiHeadLinear struct {
	weights       *mat.Dense // numActions x stateFeatures
	numActions    int
	stateFeatures int
	learningRate  float64
}

// NewMultiHeadLinear returns a new MultiHeadLinear value function for
// states of length stateFeatures and actions in [0, numActions).
// Weights are initialized to 0.
func NewMultiHeadLinear(stateFeatures, numActions int,
	learningRate float64) (*MultiHeadLinear, error) {
	if stateFeatures <= 0 {
		return nil, fmt.Errorf("newmultiheadlinear: stateFeatures must be "+
			"positive \n\thave(%v)", stateFeatures)
	}
	if numActions <= 0 {
		return nil, fmt.Errorf("newmultiheadlinear: numActions must be "+
			"positive \n\thave(%v)", numActions)
	}

	return &MultiHeadLinear{
		weights:       mat.NewDense(numActions, stateFeatures, nil),
		numActions:    numActions,
		stateFeatures: stateFeatures,
		learningRate:  learningRate,
	}, nil
}

// ModelType returns the prediction interface of the value function
func (m *MultiHeadLinear) ModelType() ModelType {
	return TypeII
}

// NumActions returns the number of actions the value function predicts
// values for
func (m *MultiHeadLinear) NumActions() int {
	return m.numActions
}

// Features returns the state as a single-row feature matrix. The
// action argument is ignored and may be nil.
func (m *MultiHeadLinear) Features(state, action mat.Vector) (*mat.Dense,
	error) {
	if state.Len() != m.stateFeatures {
		return nil, fmt.Errorf("features: invalid state length \n\twant(%v) "+
			"\n\thave(%v)", m.stateFeatures, state.Len())
	}

	row := make([]float64, m.stateFeatures)
	for i := 0; i < m.stateFeatures; i++ {
		row[i] = state.AtVec(i)
	}
	return mat.NewDense(1, len(row), row), nil
}

// NextFeatures returns the feature matrix for evaluating every action
// in the given state
func (m *MultiHeadLinear) NextFeatures(nextState mat.Vector) (*mat.Dense,
	error) {
	return m.Features(nextState, nil)
}

// Eval returns the predicted value of every action for each row of X,
// one column per action
func (m *MultiHeadLinear) Eval(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != m.stateFeatures {
		return nil, fmt.Errorf("eval: invalid number of features \n\twant(%v)"+
			" \n\thave(%v)", m.stateFeatures, cols)
	}

	predictions := mat.NewDense(rows, m.numActions, nil)
	predictions.Mul(X, m.weights.T())
	return predictions, nil
}

// Update performs one step of stochastic gradient descent per head on
// the squared error between the predictions at X and the targets Y for
// each row of X. Target entries equal to the current prediction
// contribute no update, so a target that differs from the predictions
// in a single entry adjusts only that action's head.
func (m *MultiHeadLinear) Update(X mat.Matrix, Y *mat.Dense) error {
	rows, cols := X.Dims()
	if cols != m.stateFeatures {
		return fmt.Errorf("update: invalid number of features \n\twant(%v) "+
			"\n\thave(%v)", m.stateFeatures, cols)
	}

	yRows, yCols := Y.Dims()
	if yRows != rows || yCols != m.numActions {
		return fmt.Errorf("update: invalid target size \n\twant(%vx%v) "+
			"\n\thave(%vx%v)", rows, m.numActions, yRows, yCols)
	}

	predictions, err := m.Eval(X)
	if err != nil {
		return fmt.Errorf("update: could not predict values: %v", err)
	}

	for r := 0; r < rows; r++ {
		features := mat.NewVecDense(cols, mat.Row(nil, r, X))
		for a := 0; a < m.numActions; a++ {
			tdError := Y.At(r, a) - predictions.At(r, a)
			if tdError == 0.0 {
				continue
			}

			headWeights := m.weights.RowView(a)
			newWeights := mat.NewVecDense(headWeights.Len(), nil)
			newWeights.AddScaledVec(headWeights, m.learningRate*tdError,
				features)
			m.weights.SetRow(a, mat.Col(nil, 0, newWeights))
		}
	}
	return nil
}
