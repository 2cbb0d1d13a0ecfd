package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDivisionByZero indicates a pivot length below MinPivotLength.
	ErrDivisionByZero = errors.New("dynamo: pivot length is zero")

	// ErrOutOfRange indicates a control input outside its configured range.
	ErrOutOfRange = errors.New("dynamo: value out of range")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Frame   int
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Frame, e.State, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
