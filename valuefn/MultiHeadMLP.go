package valuefn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlpNet is a multi-layered perceptron processing a single input row
// at a time
type mlpNet struct {
	g      *G.ExprGraph
	layers []*fcLayer
	input  *G.Node

	numOutputs int
	numInputs  int

	prediction *G.Node
	predVal    G.Value

	learnables G.Nodes
	model      []G.ValueGrad
}

// newMLPNet returns a new mlpNet on the graph g. The network has
// len(hiddenSizes) hidden layers followed by a final linear layer of
// size outputs, so that the output heads are always predicted no
// matter the hidden sizes.
func newMLPNet(g *G.ExprGraph, features, outputs int, hiddenSizes []int,
	biases []bool, activations []*Activation, init G.InitWFn,
	prefix string) (*mlpNet, error) {
	// Ensure one activation and one bias flag per hidden layer
	if len(hiddenSizes) != len(activations) {
		return nil, fmt.Errorf("newmlpnet: invalid number of activations "+
			"\n\twant(%v) \n\thave(%v)", len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return nil, fmt.Errorf("newmlpnet: invalid number of biases "+
			"\n\twant(%v) \n\thave(%v)", len(hiddenSizes), len(biases))
	}

	sizes := append(append([]int{}, hiddenSizes...), outputs)
	layerBiases := append(append([]bool{}, biases...), true)
	layerActivations := append(append([]*Activation{}, activations...),
		Identity())

	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName(prefix+"Input"),
		G.WithInit(G.Zeroes()),
	)

	network := &mlpNet{
		g: g,
		layers: addfcLayers(g, sizes, layerBiases, layerActivations, init,
			features, prefix),
		input:      input,
		numOutputs: outputs,
		numInputs:  features,
	}

	if err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newmlpnet: could not compute forward "+
			"pass: %v", err)
	}
	return network, nil
}

// fwd performs the forward pass of the mlpNet on the input node
func (m *mlpNet) fwd(input *G.Node) error {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			return fmt.Errorf("fwd: could not compute forward pass of "+
				"layer %v: %v", i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)
	return nil
}

// setInput sets the value of the input node before running the
// forward pass
func (m *mlpNet) setInput(input []float64) error {
	if len(input) != m.numInputs {
		return fmt.Errorf("setinput: invalid number of inputs \n\twant(%v) "+
			"\n\thave(%v)", m.numInputs, len(input))
	}

	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// output returns the predictions computed by the last run of the
// network's computational graph
func (m *mlpNet) output() []float64 {
	return m.predVal.Data().([]float64)
}

// Learnables returns the learnable nodes of the mlpNet
func (m *mlpNet) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(m.layers))
		for i := range m.layers {
			learnables = append(learnables, m.layers[i].weights)
			if bias := m.layers[i].bias; bias != nil {
				learnables = append(learnables, bias)
			}
		}
		m.learnables = G.Nodes(learnables)
	}
	return m.learnables
}

// Model returns the learnable nodes with their gradients
func (m *mlpNet) Model() []G.ValueGrad {
	// Lazy instantiation
	if m.model == nil {
		model := make([]G.ValueGrad, 0, len(m.Learnables()))
		for _, node := range m.Learnables() {
			model = append(model, node)
		}
		m.model = model
	}
	return m.model
}

// set sets the weights of the mlpNet to be equal to the weights of
// another mlpNet
func (m *mlpNet) set(source *mlpNet) error {
	sourceNodes := source.Learnables()
	nodes := m.Learnables()
	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return err
		}
	}
	return nil
}

// MultiHeadMLP is a TypeII value function approximator backed by a
// multi-layered perceptron with one output head per action. States are
// used directly as network inputs.
//
// Two networks on separate computational graphs share the same
// weights: a prediction network evaluated by Eval, and a train network
// whose graph additionally holds the squared error loss between its
// predictions and the update targets. Update runs the train network's
// graph, steps the solver on the resulting gradients, and copies the
// new weights back to the prediction network.
type MultiHeadMLP struct {
	numActions    int
	stateFeatures int

	evalNet *mlpNet
	evalVM  G.VM

	trainNet *mlpNet
	trainVM  G.VM
	targets  *G.Node
	solver   G.Solver
}

// NewMultiHeadMLP returns a new MultiHeadMLP value function for states
// of length stateFeatures and actions in [0, numActions). The network
// has len(hiddenSizes) hidden layers, where hiddenSizes[i], biases[i],
// and activations[i] determine the number of units, the presence of a
// bias unit, and the activation function of hidden layer i. A final
// linear layer with numActions output heads is always added. The
// parameter init determines the weight initialization scheme, and
// solver performs the gradient descent steps of Update.
func NewMultiHeadMLP(stateFeatures, numActions int, hiddenSizes []int,
	biases []bool, activations []*Activation, init G.InitWFn,
	solver G.Solver) (*MultiHeadMLP, error) {
	if stateFeatures <= 0 {
		return nil, fmt.Errorf("newmultiheadmlp: stateFeatures must be "+
			"positive \n\thave(%v)", stateFeatures)
	}
	if numActions <= 0 {
		return nil, fmt.Errorf("newmultiheadmlp: numActions must be "+
			"positive \n\thave(%v)", numActions)
	}
	if solver == nil {
		return nil, fmt.Errorf("newmultiheadmlp: no solver to step the " +
			"network weights")
	}

	// Network for learning the weights
	gTrain := G.NewGraph()
	trainNet, err := newMLPNet(gTrain, stateFeatures, numActions, hiddenSizes,
		biases, activations, init, "train")
	if err != nil {
		return nil, fmt.Errorf("newmultiheadmlp: could not create train "+
			"network: %v", err)
	}

	targets := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithShape(1, numActions),
		G.WithName("updateTarget"),
		G.WithInit(G.Zeroes()),
	)

	// Compute the mean squared error between predictions and targets
	losses := G.Must(G.Sub(trainNet.prediction, targets))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	// Compute the gradient with respect to the mean squared error
	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("newmultiheadmlp: could not compute "+
			"gradient: %v", err)
	}

	trainVM := G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	// Network for predicting action values
	gEval := G.NewGraph()
	evalNet, err := newMLPNet(gEval, stateFeatures, numActions, hiddenSizes,
		biases, activations, init, "eval")
	if err != nil {
		return nil, fmt.Errorf("newmultiheadmlp: could not create "+
			"prediction network: %v", err)
	}
	evalVM := G.NewTapeMachine(gEval)

	mlp := &MultiHeadMLP{
		numActions:    numActions,
		stateFeatures: stateFeatures,
		evalNet:       evalNet,
		evalVM:        evalVM,
		trainNet:      trainNet,
		trainVM:       trainVM,
		targets:       targets,
		solver:        solver,
	}

	// Both networks start from the train network's weights
	if err := mlp.evalNet.set(mlp.trainNet); err != nil {
		return nil, fmt.Errorf("newmultiheadmlp: could not synchronize "+
			"network weights: %v", err)
	}
	return mlp, nil
}

// ModelType returns the prediction interface of the value function
func (m *MultiHeadMLP) ModelType() ModelType {
	return TypeII
}

// NumActions returns the number of actions the value function predicts
// values for
func (m *MultiHeadMLP) NumActions() int {
	return m.numActions
}

// Features returns the state as a single-row feature matrix. The
// action argument is ignored and may be nil.
func (m *MultiHeadMLP) Features(state, action mat.Vector) (*mat.Dense,
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
func (m *MultiHeadMLP) NextFeatures(nextState mat.Vector) (*mat.Dense,
	error) {
	return m.Features(nextState, nil)
}

// Eval returns the predicted value of every action for each row of X,
// one column per action
func (m *MultiHeadMLP) Eval(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != m.stateFeatures {
		return nil, fmt.Errorf("eval: invalid number of features \n\twant(%v)"+
			" \n\thave(%v)", m.stateFeatures, cols)
	}

	predictions := mat.NewDense(rows, m.numActions, nil)
	for r := 0; r < rows; r++ {
		if err := m.evalNet.setInput(mat.Row(nil, r, X)); err != nil {
			return nil, fmt.Errorf("eval: could not set network input: %v",
				err)
		}
		if err := m.evalVM.RunAll(); err != nil {
			return nil, fmt.Errorf("eval: could not run computational "+
				"graph: %v", err)
		}

		predictions.SetRow(r, m.evalNet.output())
		m.evalVM.Reset()
	}
	return predictions, nil
}

// Update adjusts the network weights toward the targets Y with one
// gradient descent step per row of X, then copies the new weights to
// the prediction network
func (m *MultiHeadMLP) Update(X mat.Matrix, Y *mat.Dense) error {
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

	for r := 0; r < rows; r++ {
		if err := m.trainNet.setInput(mat.Row(nil, r, X)); err != nil {
			return fmt.Errorf("update: could not set network input: %v", err)
		}

		targetTensor := tensor.New(
			tensor.WithBacking(mat.Row(nil, r, Y)),
			tensor.WithShape(1, m.numActions),
		)
		if err := G.Let(m.targets, targetTensor); err != nil {
			return fmt.Errorf("update: could not set update target: %v", err)
		}

		// Run the learning step
		if err := m.trainVM.RunAll(); err != nil {
			return fmt.Errorf("update: could not run computational "+
				"graph: %v", err)
		}
		if err := m.solver.Step(m.trainNet.Model()); err != nil {
			return fmt.Errorf("update: could not step solver: %v", err)
		}
		m.trainVM.Reset()
	}

	// Update the prediction network by setting its weights to the
	// newly learned weights
	if err := m.evalNet.set(m.trainNet); err != nil {
		return fmt.Errorf("update: could not synchronize network "+
			"weights: %v", err)
	}
	return nil
}
