package valuefn

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMultiHeadLinear(t *testing.T) {
	if _, err := NewMultiHeadLinear(-1, 2, 0.1); err == nil {
		t.Error("newmultiheadlinear: expected error for non-positive " +
			"stateFeatures")
	}
	if _, err := NewMultiHeadLinear(2, 0, 0.1); err == nil {
		t.Error("newmultiheadlinear: expected error for non-positive " +
			"numActions")
	}

	vf, err := NewMultiHeadLinear(2, 4, 0.1)
	if err != nil {
		t.Fatalf("newmultiheadlinear: %v", err)
	}
	if vf.ModelType() != TypeII {
		t.Errorf("modeltype: expected %v, got %v", TypeII, vf.ModelType())
	}
	if vf.NumActions() != 4 {
		t.Errorf("numactions: expected 4, got %v", vf.NumActions())
	}
}

func TestMultiHeadLinearFeatures(t *testing.T) {
	vf, err := NewMultiHeadLinear(2, 2, 0.1)
	if err != nil {
		t.Fatalf("newmultiheadlinear: %v", err)
	}

	// The action argument should be ignored
	state := mat.NewVecDense(2, []float64{0.5, -1.0})
	X, err := vf.Features(state, nil)
	if err != nil {
		t.Fatalf("features: %v", err)
	}

	rows, cols := X.Dims()
	if rows != 1 || cols != 2 {
		t.Fatalf("features: expected a 1x2 matrix, got %vx%v", rows, cols)
	}
	if X.At(0, 0) != 0.5 || X.At(0, 1) != -1.0 {
		t.Errorf("features: expected row [0.5 -1], got [%v %v]", X.At(0, 0),
			X.At(0, 1))
	}

	// The features should not alias the state
	X.Set(0, 0, 100.0)
	if state.AtVec(0) != 0.5 {
		t.Error("features: feature matrix should not share memory with the " +
			"state")
	}

	if _, err := vf.Features(mat.NewVecDense(3, nil), nil); err == nil {
		t.Error("features: expected error for invalid state length")
	}

	// NextFeatures should equal Features on the next state
	XNext, err := vf.NextFeatures(state)
	if err != nil {
		t.Fatalf("nextfeatures: %v", err)
	}
	rows, cols = XNext.Dims()
	if rows != 1 || cols != 2 {
		t.Fatalf("nextfeatures: expected a 1x2 matrix, got %vx%v", rows, cols)
	}
	if XNext.At(0, 0) != 0.5 || XNext.At(0, 1) != -1.0 {
		t.Errorf("nextfeatures: expected row [0.5 -1], got [%v %v]",
			XNext.At(0, 0), XNext.At(0, 1))
	}
}

func TestMultiHeadLinearEval(t *testing.T) {
	vf, err := NewMultiHeadLinear(2, 2, 0.1)
	if err != nil {
		t.Fatalf("newmultiheadlinear: %v", err)
	}
	vf.weights = mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	X := mat.NewDense(2, 2, []float64{
		0.5, -1.0,
		1.0, 1.0,
	})

	predictions, err := vf.Eval(X)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}

	rows, cols := predictions.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("eval: expected a 2x2 matrix, got %vx%v", rows, cols)
	}

	expected := [][]float64{{-1.5, -2.5}, {3.0, 7.0}}
	for r := range expected {
		for a := range expected[r] {
			if predictions.At(r, a) != expected[r][a] {
				t.Errorf("eval: row %v action %v: expected %v, got %v", r, a,
					expected[r][a], predictions.At(r, a))
			}
		}
	}

	if _, err := vf.Eval(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("eval: expected error for invalid number of features")
	}
}

func TestMultiHeadLinearUpdate(t *testing.T) {
	vf, err := NewMultiHeadLinear(2, 2, 0.5)
	if err != nil {
		t.Fatalf("newmultiheadlinear: %v", err)
	}
	vf.weights = mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	// The predictions at X are [3 7]. A target equal to the
	// predictions except at action 1 should adjust action 1's head
	// only.
	X := mat.NewDense(1, 2, []float64{1, 1})
	Y := mat.NewDense(1, 2, []float64{3, 9})
	if err := vf.Update(X, Y); err != nil {
		t.Fatalf("update: %v", err)
	}

	expected := [][]float64{{1, 2}, {4, 5}}
	for a := range expected {
		for i := range expected[a] {
			if vf.weights.At(a, i) != expected[a][i] {
				t.Errorf("update: head %v weight %v: expected %v, got %v", a,
					i, expected[a][i], vf.weights.At(a, i))
			}
		}
	}

	predictions, err := vf.Eval(X)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if predictions.At(0, 0) != 3.0 || predictions.At(0, 1) != 9.0 {
		t.Errorf("update: expected new predictions [3 9], got [%v %v]",
			predictions.At(0, 0), predictions.At(0, 1))
	}

	// Invalid target shape
	if err := vf.Update(X, mat.NewDense(1, 3, nil)); err == nil {
		t.Error("update: expected error for invalid target size")
	}
}

func TestMultiHeadLinearUpdateFromZero(t *testing.T) {
	vf, err := NewMultiHeadLinear(2, 2, 0.5)
	if err != nil {
		t.Fatalf("newmultiheadlinear: %v", err)
	}

	X := mat.NewDense(1, 2, []float64{1, 2})
	Y := mat.NewDense(1, 2, []float64{0, 3})
	if err := vf.Update(X, Y); err != nil {
		t.Fatalf("update: %v", err)
	}

	predictions, err := vf.Eval(X)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if predictions.At(0, 0) != 0.0 {
		t.Errorf("update: action 0's head should not have moved, predicts %v",
			predictions.At(0, 0))
	}
	if predictions.At(0, 1) != 7.5 {
		t.Errorf("update: expected action 1 prediction 7.5, got %v",
			predictions.At(0, 1))
	}
}
