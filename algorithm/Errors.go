package algorithm

import "errors"

// AlgorithmError implements errors unique to learning algorithms
type AlgorithmError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *AlgorithmError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errInvalidModel error = errors.New("model must be either a value " +
	"function or a value-based policy")

var errUnknownModelType = errors.New("unknown model type")

// IsInvalidModel returns whether or not an error reports that the
// model given to an algorithm was neither a value function nor a
// value-based policy
func IsInvalidModel(err error) bool {
	if algErr, ok := err.(*AlgorithmError); ok {
		err = algErr.Err
	}
	return err == errInvalidModel
}

// IsUnknownModelType returns whether or not an error reports that a
// value function's ModelType was not recognized
func IsUnknownModelType(err error) bool {
	if algErr, ok := err.(*AlgorithmError); ok {
		err = algErr.Err
	}
	return err == errUnknownModelType
}
