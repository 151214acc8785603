// Package multicast provides a type-safe, synchronous, ordered broadcast
// primitive with explicit subscription tokens and an optional weak listener
// mode.
//
// Unlike channel-based broadcasters, a Dispatcher invokes listeners inline on
// the raising goroutine, in subscription order, and stops at the first
// listener error. That makes it suitable as the fan-out building block for
// components that need deterministic delivery and synchronous error
// propagation rather than buffering.
//
// # Usage
//
//	import "github.com/dmitrymomot/statekit/pkg/multicast"
//
//	d := multicast.New[int]()
//	defer d.Close()
//
//	tok := d.Subscribe(func(v int) error {
//	    fmt.Println("got", v)
//	    return nil
//	})
//
//	_ = d.Raise(42)
//	d.Unsubscribe(tok)
//
// # Weak listeners
//
// Weak binds a listener to a target object through a weak pointer, so the
// subscription neither keeps the target alive nor outlives it:
//
//	sink := &Collector{}
//	multicast.Weak(d, sink, (*Collector).Observe)
//
// Once sink becomes unreachable and is reclaimed, the listener is skipped
// and eventually pruned; no explicit unsubscription is required.
//
// # Completion
//
// Close completes the dispatcher: every subscription registered with a
// WithDone callback is notified exactly once, later Subscribe calls return
// zero tokens (notifying their WithDone immediately), and Raise returns
// ErrClosed. Close is idempotent.
//
// # Concurrency
//
// All methods are safe for concurrent use. A listener may unsubscribe itself
// (or any other listener) from inside a raise; delivery checks liveness
// before each invocation.
package multicast
