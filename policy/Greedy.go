package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gorl/utils/matutils"
	"github.com/samuelfneumann/gorl/valuefn"
)

// Greedy selects the action with the highest predicted value in each
// state. Ties are broken in favor of the lowest action index.
type Greedy struct {
	valueFn valuefn.ValueFn
}

// NewGreedy returns a new Greedy policy over the predictions of vf
func NewGreedy(vf valuefn.ValueFn) (*Greedy, error) {
	if vf == nil {
		return nil, fmt.Errorf("newgreedy: no value function to select " +
			"actions from")
	}
	return &Greedy{valueFn: vf}, nil
}

// SelectAction returns the greedy action in the given state
func (g *Greedy) SelectAction(state mat.Vector) (*mat.VecDense, error) {
	values, err := actionValues(g.valueFn, state)
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	action := matutils.MaxVec(values)
	return mat.NewVecDense(1, []float64{float64(action)}), nil
}

// ValueFn returns the value function whose predictions the policy
// selects actions from
func (g *Greedy) ValueFn() valuefn.ValueFn {
	return g.valueFn
}
