package engine

import (
	"fmt"
	"log/slog"
)

// Policy selects between the strict and lenient behaviors of the engine's
// submission and fault handling (see Submit).
type Policy int

const (
	// Strict makes missing handlers and handler faults surface as errors
	// returned from Submit.
	Strict Policy = iota
	// Lenient absorbs those conditions: missing handlers become routed
	// faults and faults never abort the submission.
	Lenient
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name ("strict" or "lenient") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Option configures an engine during construction.
type Option func(*Engine) error

// WithSubmitPolicy sets how Submit treats an event with no registered
// handler. Default is Strict.
func WithSubmitPolicy(p Policy) Option {
	return func(e *Engine) error {
		if p != Strict && p != Lenient {
			return fmt.Errorf("%w: submit policy %d", ErrInvalidPolicy, int(p))
		}
		e.submitPolicy = p
		return nil
	}
}

// WithFaultPolicy sets whether a handler fault aborts the submission and is
// returned from Submit (Strict) or is absorbed after routing (Lenient).
// Default is Strict.
func WithFaultPolicy(p Policy) Option {
	return func(e *Engine) error {
		if p != Strict && p != Lenient {
			return fmt.Errorf("%w: fault policy %d", ErrInvalidPolicy, int(p))
		}
		e.faultPolicy = p
		return nil
	}
}

// WithFaultHook overrides the single fault hook invoked after every fault is
// broadcast to fault listeners. The default hook does nothing.
func WithFaultHook(fn func(*HandlerFault)) Option {
	return func(e *Engine) error {
		e.hook = fn
		return nil
	}
}

// WithLogger sets the logger used for debug-level lifecycle and fault
// routing logs. Logging is discarded by default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) error {
		if log != nil {
			e.log = log
		}
		return nil
	}
}

// WithWatchBuffer sets the buffer size of channels returned by Watch.
// A minimum of 1 is enforced so sends never block the engine.
func WithWatchBuffer(n int) Option {
	return func(e *Engine) error {
		e.watchBuf = max(n, 1)
		return nil
	}
}

// WithHandler registers a handler at construction time, mirroring Register.
func WithHandler(kind string, h Handler) Option {
	return func(e *Engine) error {
		return e.reg.register(kind, h)
	}
}

// WithLeakCheck arms a debug-only probe that logs a warning if the engine is
// reclaimed by the garbage collector without Close having been called. It is
// a leak detector, never a correctness mechanism.
func WithLeakCheck() Option {
	return func(e *Engine) error {
		e.leakCheck = true
		return nil
	}
}
