package algorithm

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorl/policy"
	"github.com/samuelfneumann/gorl/valuefn"
)

// fakeValueFn is a value function with a constant scripted prediction
// that records the feature matrices and targets passed to Update, so
// that tests can inspect the updates an algorithm performs. A TypeI
// fakeValueFn encodes a state-action pair as the state followed by the
// action, and a TypeII fakeValueFn uses states as features directly.
type fakeValueFn struct {
	modelType  valuefn.ModelType
	numActions int
	features   int
	prediction float64

	updatedX []*mat.Dense
	updatedY []*mat.Dense
}

func (f *fakeValueFn) ModelType() valuefn.ModelType {
	return f.modelType
}

func (f *fakeValueFn) NumActions() int {
	return f.numActions
}

func (f *fakeValueFn) Features(state, action mat.Vector) (*mat.Dense, error) {
	if f.modelType == valuefn.TypeI {
		if action == nil {
			return nil, fmt.Errorf("features: nil action")
		}
		row := make([]float64, f.features+1)
		for i := 0; i < f.features; i++ {
			row[i] = state.AtVec(i)
		}
		row[f.features] = action.AtVec(0)
		return mat.NewDense(1, len(row), row), nil
	}

	row := make([]float64, f.features)
	for i := 0; i < f.features; i++ {
		row[i] = state.AtVec(i)
	}
	return mat.NewDense(1, len(row), row), nil
}

func (f *fakeValueFn) NextFeatures(nextState mat.Vector) (*mat.Dense, error) {
	if f.modelType == valuefn.TypeI {
		X := mat.NewDense(f.numActions, f.features+1, nil)
		for a := 0; a < f.numActions; a++ {
			for i := 0; i < f.features; i++ {
				X.Set(a, i, nextState.AtVec(i))
			}
			X.Set(a, f.features, float64(a))
		}
		return X, nil
	}
	return f.Features(nextState, nil)
}

func (f *fakeValueFn) Eval(X mat.Matrix) (*mat.Dense, error) {
	rows, _ := X.Dims()
	cols := 1
	if f.modelType == valuefn.TypeII {
		cols = f.numActions
	}

	predictions := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			predictions.Set(r, c, f.prediction)
		}
	}
	return predictions, nil
}

func (f *fakeValueFn) Update(X mat.Matrix, Y *mat.Dense) error {
	f.updatedX = append(f.updatedX, mat.DenseCopyOf(X))
	f.updatedY = append(f.updatedY, mat.DenseCopyOf(Y))
	return nil
}

// episodeStep feeds one transition of a scripted episode to m
func episodeStep(t *testing.T, m *MonteCarlo, action, reward float64,
	done bool) {
	t.Helper()

	state := mat.NewVecDense(2, []float64{1.0, 2.0})
	nextState := mat.NewVecDense(2, []float64{3.0, 4.0})
	a := mat.NewVecDense(1, []float64{action})

	if err := m.Update(state, a, reward, nextState, done); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestMonteCarloTypeITargets(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	// No value function updates should happen before the episode ends
	episodeStep(t, mc, 0, 1.0, false)
	episodeStep(t, mc, 1, 2.0, false)
	if len(vf.updatedY) != 0 {
		t.Fatalf("update: expected no updates before the episode ends, "+
			"got %v", len(vf.updatedY))
	}

	// The terminal transition triggers one update per episode step,
	// starting at the terminal transition and working backward
	episodeStep(t, mc, 0, 3.0, true)
	if len(vf.updatedY) != 3 {
		t.Fatalf("update: expected 3 updates, got %v", len(vf.updatedY))
	}

	targets := []float64{3.0, 3.5, 2.75}
	for i, target := range targets {
		rows, cols := vf.updatedY[i].Dims()
		if rows != 1 || cols != 1 {
			t.Fatalf("update %v: expected a 1x1 target, got %vx%v", i, rows,
				cols)
		}
		if vf.updatedY[i].At(0, 0) != target {
			t.Errorf("update %v: expected target %v, got %v", i, target,
				vf.updatedY[i].At(0, 0))
		}

		// State-action pairs are encoded as the state followed by
		// the action
		rows, cols = vf.updatedX[i].Dims()
		if rows != 1 || cols != 3 {
			t.Errorf("update %v: expected a 1x3 feature matrix, got %vx%v", i,
				rows, cols)
		}
	}
}

func TestMonteCarloTypeIITargets(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeII,
		numActions: 3,
		features:   2,
		prediction: 0.5,
	}
	mc, err := NewMonteCarlo(vf, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	episodeStep(t, mc, 0, 1.0, false)
	episodeStep(t, mc, 1, 2.0, false)
	if len(vf.updatedY) != 0 {
		t.Fatalf("update: expected no updates before the episode ends, "+
			"got %v", len(vf.updatedY))
	}

	episodeStep(t, mc, 2, 3.0, true)
	if len(vf.updatedY) != 3 {
		t.Fatalf("update: expected 3 updates, got %v", len(vf.updatedY))
	}

	// Each target should equal the current predictions with the taken
	// action's entry overwritten by the return estimate
	targets := [][]float64{
		{0.5, 0.5, 3.0},
		{0.5, 3.5, 0.5},
		{2.75, 0.5, 0.5},
	}
	for i, target := range targets {
		rows, cols := vf.updatedY[i].Dims()
		if rows != 1 || cols != 3 {
			t.Fatalf("update %v: expected a 1x3 target, got %vx%v", i, rows,
				cols)
		}
		for a, value := range target {
			if vf.updatedY[i].At(0, a) != value {
				t.Errorf("update %v: action %v: expected target %v, got %v",
					i, a, value, vf.updatedY[i].At(0, a))
			}
		}

		// States are used directly as features
		rows, cols = vf.updatedX[i].Dims()
		if rows != 1 || cols != 2 {
			t.Errorf("update %v: expected a 1x2 feature matrix, got %vx%v", i,
				rows, cols)
		}
	}
}

func TestMonteCarloUndiscountedTargets(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 1.0)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	episodeStep(t, mc, 0, 1.0, false)
	episodeStep(t, mc, 1, 1.0, false)
	episodeStep(t, mc, 0, 1.0, true)

	// Without discounting, the return grows by one reward per step
	// backward through the episode
	targets := []float64{1.0, 2.0, 3.0}
	if len(vf.updatedY) != len(targets) {
		t.Fatalf("update: expected %v updates, got %v", len(targets),
			len(vf.updatedY))
	}
	for i, target := range targets {
		if vf.updatedY[i].At(0, 0) != target {
			t.Errorf("update %v: expected target %v, got %v", i, target,
				vf.updatedY[i].At(0, 0))
		}
	}
}

func TestMonteCarloMyopicTargets(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 0.0)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	episodeStep(t, mc, 0, 1.0, false)
	episodeStep(t, mc, 1, 2.0, false)
	episodeStep(t, mc, 0, 3.0, true)

	// A discount factor of 0 reduces each return to its own reward
	targets := []float64{3.0, 2.0, 1.0}
	if len(vf.updatedY) != len(targets) {
		t.Fatalf("update: expected %v updates, got %v", len(targets),
			len(vf.updatedY))
	}
	for i, target := range targets {
		if vf.updatedY[i].At(0, 0) != target {
			t.Errorf("update %v: expected target %v, got %v", i, target,
				vf.updatedY[i].At(0, 0))
		}
	}
}

func TestMonteCarloEpisodesIndependent(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	// The cache should be emptied by the first episode's updates so
	// that the second episode's returns are computed from its own
	// rewards only
	episodeStep(t, mc, 0, 5.0, true)
	episodeStep(t, mc, 1, 1.0, true)

	if len(vf.updatedY) != 2 {
		t.Fatalf("update: expected 2 updates, got %v", len(vf.updatedY))
	}
	if vf.updatedY[0].At(0, 0) != 5.0 {
		t.Errorf("update 0: expected target 5, got %v", vf.updatedY[0].At(0, 0))
	}
	if vf.updatedY[1].At(0, 0) != 1.0 {
		t.Errorf("update 1: expected target 1, got %v", vf.updatedY[1].At(0, 0))
	}
}

func TestMonteCarloCacheLifecycle(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	// Each non-terminal transition grows the cache by exactly one, and
	// the cache persists between calls until the episode ends
	episodeStep(t, mc, 0, 1.0, false)
	if mc.cache.Len() != 1 {
		t.Fatalf("update: expected 1 cached transition, got %v",
			mc.cache.Len())
	}
	episodeStep(t, mc, 1, 2.0, false)
	if mc.cache.Len() != 2 {
		t.Fatalf("update: expected 2 cached transitions, got %v",
			mc.cache.Len())
	}

	// The terminal update drains the cache completely, with one value
	// function update per cached transition
	episodeStep(t, mc, 0, 3.0, true)
	if mc.cache.Len() != 0 {
		t.Errorf("update: expected an empty cache after the terminal "+
			"update, got %v transitions", mc.cache.Len())
	}
	if len(vf.updatedY) != 3 {
		t.Errorf("update: expected 3 updates, got %v", len(vf.updatedY))
	}
}

func TestNewMonteCarloValuePolicy(t *testing.T) {
	// Giving a value-based policy should train its underlying value
	// function
	vf := &fakeValueFn{
		modelType:  valuefn.TypeII,
		numActions: 2,
		features:   2,
	}
	greedy, err := policy.NewGreedy(vf)
	if err != nil {
		t.Fatalf("newgreedy: %v", err)
	}

	mc, err := NewMonteCarlo(greedy, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	episodeStep(t, mc, 0, 2.0, true)
	if len(vf.updatedY) != 1 {
		t.Fatalf("update: expected 1 update of the policy's value function, "+
			"got %v", len(vf.updatedY))
	}
}

func TestNewMonteCarloInvalidModel(t *testing.T) {
	// Neither a value function nor a value-based policy
	_, err := NewMonteCarlo(42, 0.5)
	if err == nil {
		t.Fatal("newmontecarlo: expected error for invalid model")
	}
	if !IsInvalidModel(err) {
		t.Errorf("newmontecarlo: expected an invalid model error, got %v", err)
	}

	_, err = NewMonteCarlo(nil, 0.5)
	if !IsInvalidModel(err) {
		t.Errorf("newmontecarlo: expected an invalid model error, got %v", err)
	}

	// A policy that does not select actions from a value function
	// cannot be trained
	random, err := policy.NewRandom(3, 42)
	if err != nil {
		t.Fatalf("newrandom: %v", err)
	}
	_, err = NewMonteCarlo(random, 0.5)
	if !IsInvalidModel(err) {
		t.Errorf("newmontecarlo: expected an invalid model error, got %v", err)
	}

	if IsInvalidModel(nil) {
		t.Error("isinvalidmodel: nil error should not report an invalid model")
	}
}

func TestNewMonteCarloDiscountRange(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.TypeI,
		numActions: 2,
		features:   2,
	}

	if _, err := NewMonteCarlo(vf, -0.1); err == nil {
		t.Error("newmontecarlo: expected error for negative discount factor")
	}
	if _, err := NewMonteCarlo(vf, 1.1); err == nil {
		t.Error("newmontecarlo: expected error for discount factor above 1")
	}

	// The boundaries are valid discount factors
	if _, err := NewMonteCarlo(vf, 0.0); err != nil {
		t.Errorf("newmontecarlo: %v", err)
	}
	if _, err := NewMonteCarlo(vf, 1.0); err != nil {
		t.Errorf("newmontecarlo: %v", err)
	}
}

func TestMonteCarloUnknownModelType(t *testing.T) {
	vf := &fakeValueFn{
		modelType:  valuefn.ModelType(99),
		numActions: 2,
		features:   2,
	}
	mc, err := NewMonteCarlo(vf, 0.5)
	if err != nil {
		t.Fatalf("newmontecarlo: %v", err)
	}

	state := mat.NewVecDense(2, []float64{1.0, 2.0})
	action := mat.NewVecDense(1, []float64{0})
	err = mc.Update(state, action, 1.0, state, false)
	if err == nil {
		t.Fatal("update: expected error for unknown model type")
	}
	if !IsUnknownModelType(err) {
		t.Errorf("update: expected an unknown model type error, got %v", err)
	}
}
