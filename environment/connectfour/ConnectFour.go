// Package connectfour implements the Connect Four board game as an
// adversarial environment.
//
// The agent plays against a fixed adversary policy that is folded into
// the environment: each environmental step places the agent's piece,
// then the adversary's, so that the agent always observes the board
// with both moves applied. Rewards are from the agent's perspective.
// Episodes end when either player connects four pieces or the board
// fills up.
package connectfour

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gorl/environment"
	"github.com/samuelfneumann/gorl/policy"
	"github.com/samuelfneumann/gorl/utils/matutils"
)

const (
	numRows = 6
	numCols = 7

	agentPiece     float64 = 1
	adversaryPiece float64 = 2
)

// Config describes the rewards of a Connect Four game. All rewards
// are from the agent's perspective: WinReward and LossReward are given
// when an episode ends with four connected pieces for the agent or
// the adversary respectively, DrawReward when the board fills up, and
// IntermediateReward on every other step.
type Config struct {
	WinReward          float64
	LossReward         float64
	DrawReward         float64
	IntermediateReward float64
}

// DefaultConfig returns the default Connect Four rewards
func DefaultConfig() Config {
	return Config{
		WinReward:          1.0,
		LossReward:         -1.0,
		DrawReward:         -0.5,
		IntermediateReward: 0.0,
	}
}

// ConnectFour implements the Connect Four game on a 6 x 7 board. Cells
// hold 0 when empty, 1 for the agent's pieces, and 2 for the
// adversary's. Actions are column indices in [0, 7): taking an action
// drops a piece into that column, where it falls to the lowest empty
// cell. Observations are the board flattened row by row.
type ConnectFour struct {
	adversary policy.Policy
	config    Config

	board  *mat.Dense
	levels []int // lowest empty row per column, -1 when full

	lastAdversaryAction int

	source rand.Source
	coin   distuv.Bernoulli
}

// New returns a new ConnectFour game against the given adversary
// policy, using seed to seed the opening coin flip and the fallback
// move selection
func New(adversary policy.Policy, config Config,
	seed uint64) (*ConnectFour, error) {
	if adversary == nil {
		return nil, fmt.Errorf("new: must specify an adversary in order " +
			"to run the environment")
	}

	source := rand.NewSource(seed)
	game := &ConnectFour{
		adversary:           adversary,
		config:              config,
		board:               mat.NewDense(numRows, numCols, nil),
		levels:              make([]int, numCols),
		lastAdversaryAction: -1,
		source:              source,
		coin:                distuv.Bernoulli{P: 0.5, Src: source},
	}
	for j := range game.levels {
		game.levels[j] = numRows - 1
	}
	return game, nil
}

// Reset clears the board and starts a new episode. A coin flip decides
// whether the adversary opens the game with the first piece.
func (c *ConnectFour) Reset() (*mat.VecDense, error) {
	c.board = mat.NewDense(numRows, numCols, nil)
	c.lastAdversaryAction = -1
	for j := range c.levels {
		c.levels[j] = numRows - 1
	}

	if c.coin.Rand() == 1.0 {
		a, err := c.adversaryAction()
		if err != nil {
			return nil, fmt.Errorf("reset: could not select adversary "+
				"action: %v", err)
		}
		c.board.Set(c.levels[a], a, adversaryPiece)
		c.levels[a]--
	}
	return c.observation(), nil
}

// Step drops the agent's piece into the column indexed by action and,
// if the episode has not ended, the adversary's piece into the column
// its policy selects. An action indexing a full column results in an
// error satisfying IsUnavailableAction.
func (c *ConnectFour) Step(action mat.Vector) (*mat.VecDense, float64, bool,
	error) {
	if action == nil || action.Len() != 1 {
		return nil, 0, false, &GameError{
			Op:  "step",
			Err: errors.New("actions must be single dimensional"),
		}
	}

	a := int(action.AtVec(0))
	if a < 0 || a >= numCols {
		return nil, 0, false, &GameError{
			Op:  "step",
			Err: fmt.Errorf("invalid action %v", a),
		}
	}
	if c.levels[a] < 0 {
		return nil, 0, false, &GameError{Op: "step", Err: errUnavailableAction}
	}

	// Agent's turn
	c.board.Set(c.levels[a], a, agentPiece)
	done, reward := c.doneReward(a, agentPiece)
	if done {
		return c.observation(), reward, done, nil
	}

	// Adversary's turn
	a, err := c.adversaryAction()
	if err != nil {
		return nil, 0, false, fmt.Errorf("step: could not select adversary "+
			"action: %v", err)
	}
	c.board.Set(c.levels[a], a, adversaryPiece)
	done, reward = c.doneReward(a, adversaryPiece)

	return c.observation(), reward, done, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (c *ConnectFour) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(numRows*numCols, nil)
	lowerBound := mat.NewVecDense(numRows*numCols, nil)

	bounds := make([]float64, numRows*numCols)
	for i := range bounds {
		bounds[i] = adversaryPiece
	}
	upperBound := mat.NewVecDense(numRows*numCols, bounds)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// ActionSpec returns the action specification of the environment
func (c *ConnectFour) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{numCols - 1})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// observation returns the current board flattened row by row
func (c *ConnectFour) observation() *mat.VecDense {
	return mat.NewVecDense(numRows*numCols, matutils.Flatten(c.board))
}

// availableActions returns the columns that still have an empty cell
func (c *ConnectFour) availableActions() []int {
	available := make([]int, 0, numCols)
	for j, level := range c.levels {
		if level >= 0 {
			available = append(available, j)
		}
	}
	return available
}

// adversaryAction selects the adversary's next column. If the
// adversary's policy selects an unavailable column, a column is
// instead selected uniformly at random from the available ones.
func (c *ConnectFour) adversaryAction() (int, error) {
	action, err := c.adversary.SelectAction(c.observation())
	if err != nil {
		return 0, err
	}

	a := int(action.AtVec(0))
	if a < 0 || a >= numCols || c.levels[a] < 0 {
		weights := make([]float64, numCols)
		for j, level := range c.levels {
			if level >= 0 {
				weights[j] = 1.0
			}
		}
		a = int(distuv.NewCategorical(weights, c.source).Rand())
	}

	c.lastAdversaryAction = a
	return a, nil
}

// doneReward records that a piece was just placed in column a and
// returns whether the episode has ended along with the reward for the
// transition. The reward is from the agent's perspective, no matter
// which player placed the piece.
func (c *ConnectFour) doneReward(a int, piece float64) (bool, float64) {
	row := c.levels[a]
	c.levels[a]--

	reward := c.config.WinReward
	if piece == adversaryPiece {
		reward = c.config.LossReward
	}

	if c.connectsFour(row, a, piece) {
		return true, reward
	}
	if len(c.availableActions()) == 0 {
		return true, c.config.DrawReward
	}
	return false, c.config.IntermediateReward
}

// connectsFour returns whether the piece just placed at (row, col)
// completes a line of four
func (c *ConnectFour) connectsFour(row, col int, piece float64) bool {
	// Vertical lines can only extend downward from the placed piece
	if 1+c.runLength(row, col, 1, 0, piece) >= 4 {
		return true
	}
	if 1+c.runLength(row, col, 0, -1, piece)+
		c.runLength(row, col, 0, 1, piece) >= 4 {
		return true
	}
	if 1+c.runLength(row, col, -1, -1, piece)+
		c.runLength(row, col, 1, 1, piece) >= 4 {
		return true
	}
	if 1+c.runLength(row, col, 1, -1, piece)+
		c.runLength(row, col, -1, 1, piece) >= 4 {
		return true
	}
	return false
}

// runLength returns the number of consecutive cells holding piece
// along the direction (di, dj), starting beside (row, col) and looking
// at most three cells out
func (c *ConnectFour) runLength(row, col, di, dj int, piece float64) int {
	n := 0
	i, j := row, col
	for step := 0; step < 3; step++ {
		i += di
		j += dj
		if i < 0 || i >= numRows || j < 0 || j >= numCols ||
			c.board.At(i, j) != piece {
			break
		}
		n++
	}
	return n
}

// String returns a unicode rendering of the current board. The agent's
// pieces are drawn as ●, the adversary's as ○, and the adversary's
// last move is marked with ▽ above its column.
func (c *ConnectFour) String() string {
	hrule := strings.Repeat("+---", numCols) + "+\n"

	markers := make([]string, numCols)
	for j := range markers {
		if j == c.lastAdversaryAction {
			markers[j] = "▽"
		} else {
			markers[j] = " "
		}
	}

	var board strings.Builder
	board.WriteString("  " + strings.Join(markers, "   ") + "  \n")
	board.WriteString(hrule)

	for i := 0; i < numRows; i++ {
		cells := make([]string, numCols)
		for j := range cells {
			switch c.board.At(i, j) {
			case agentPiece:
				cells[j] = "●"
			case adversaryPiece:
				cells[j] = "○"
			default:
				cells[j] = " "
			}
		}
		board.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		board.WriteString(hrule)
	}
	return board.String()
}
