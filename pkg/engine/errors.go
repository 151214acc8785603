package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateHandler is returned when registering a second handler for
	// an event kind that already has one. The registry keeps its prior state.
	ErrDuplicateHandler = errors.New("engine: handler already registered for event kind")

	// ErrUnregisteredHandler signals a submission whose event kind has no
	// handler. Under the strict submit policy Submit returns it directly;
	// under the lenient policy it travels inside a HandlerFault.
	ErrUnregisteredHandler = errors.New("engine: no handler registered for event kind")

	// ErrClosed is returned by Submit after the engine has been closed.
	ErrClosed = errors.New("engine: engine is closed")

	// ErrNilState is returned by New when the initial state is nil.
	ErrNilState = errors.New("engine: initial state cannot be nil")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("engine: handler cannot be nil")

	// ErrNilEvent is returned by Submit for a nil event.
	ErrNilEvent = errors.New("engine: event cannot be nil")

	// ErrEventMismatch is reported by HandlerFor when the submitted event's
	// concrete type does not match the handler's typed signature.
	ErrEventMismatch = errors.New("engine: event type does not match registered handler")

	// ErrInvalidPolicy is returned for a policy value outside Strict/Lenient
	// or an unrecognized policy name in configuration.
	ErrInvalidPolicy = errors.New("engine: invalid policy")

	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into Config.
	ErrParsingConfig = errors.New("engine: failed to parse environment variables into config")
)

// HandlerFault wraps any fault raised while producing states for a submitted
// event, including a missing handler under the lenient submit policy. It is
// what fault listeners and the fault hook receive, and what Submit returns
// under the strict fault policy.
type HandlerFault struct {
	Event Event
	Err   error
}

func (f *HandlerFault) Error() string {
	return fmt.Sprintf("engine: handler fault on event %q: %v", f.Event.Kind(), f.Err)
}

func (f *HandlerFault) Unwrap() error {
	return f.Err
}

// IsHandlerFault reports whether err is or wraps a HandlerFault.
func IsHandlerFault(err error) bool {
	var f *HandlerFault
	return errors.As(err, &f)
}
