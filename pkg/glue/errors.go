package glue

import "errors"

var (
	// ErrStateMismatch is returned through the state broadcast when a state
	// of a bound kind does not carry the concrete type the binding's
	// selector was declared against.
	ErrStateMismatch = errors.New("glue: state type does not match bound selector")

	// ErrActionMismatch is the analogous failure for typed action handlers
	// registered with OnAction.
	ErrActionMismatch = errors.New("glue: action type does not match registered handler")
)
