package machine

import (
	"errors"
	"fmt"
)

// Domain errors for machine stepping.
var (
	// ErrUndefinedTransition indicates the rule table has no entry for the
	// current (state, symbol) pair.
	ErrUndefinedTransition = errors.New("machine: undefined transition")

	// ErrOutOfBounds indicates the head sits outside the tape under the halt policy.
	ErrOutOfBounds = errors.New("machine: head is off the tape")

	// ErrUnknownPolicy indicates an unrecognized tape policy name.
	ErrUnknownPolicy = errors.New("machine: unknown tape policy")
)

// UndefinedTransitionError carries the offending (state, symbol) pair.
type UndefinedTransitionError struct {
	State  int
	Symbol int
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("undefined transition for state %d, symbol %d", e.State, e.Symbol)
}

func (e *UndefinedTransitionError) Unwrap() error {
	return ErrUndefinedTransition
}

// OutOfBoundsError reports a read attempted at a position outside [0, Length).
type OutOfBoundsError struct {
	Position int
	Length   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("head at position %d is outside tape of length %d", e.Position, e.Length)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// IsHalt reports whether err is one of the step failures a runner treats as
// "the machine stopped here".
func IsHalt(err error) bool {
	return errors.Is(err, ErrUndefinedTransition) || errors.Is(err, ErrOutOfBounds)
}
