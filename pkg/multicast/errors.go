package multicast

import "errors"

var (
	// ErrClosed is returned by Raise after the dispatcher has been closed.
	ErrClosed = errors.New("multicast: dispatcher is closed")
)
