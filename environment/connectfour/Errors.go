package connectfour

import "errors"

// GameError implements errors unique to the Connect Four environment
type GameError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *GameError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errUnavailableAction error = errors.New("action is not available")

// IsUnavailableAction returns whether or not an error reports that an
// action's column is already full
func IsUnavailableAction(err error) bool {
	if gameErr, ok := err.(*GameError); ok {
		err = gameErr.Err
	}
	return err == errUnavailableAction
}
