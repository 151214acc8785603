// Package engine implements a reactive state container: events go in, a
// registered handler maps each event to a sequence of states, and the
// results fan out over four independently observable streams — raw events,
// distinct states, triggered actions, and handler faults.
//
// The package revolves around three minimal interfaces — Event, State, and
// Action — discriminated by Kind. States additionally carry the equality
// relation used by the distinct filter: the state stream never contains two
// consecutive equal values, while the action stream is never filtered or
// deduplicated.
//
// # Handlers
//
// A Handler returns an iter.Seq of Outcome values, built with Next (a state),
// Trigger (an action), and Fail (a reported fault). The engine pulls the
// sequence to completion inside Submit, so a handler may suspend between
// yields — awaiting internal futures or channels — without two submissions
// ever interleaving on one engine. Emit covers the common eager case, and
// HandlerFor adapts a handler written against a concrete event type.
//
// # Usage
//
//	import (
//	    "context"
//	    "github.com/dmitrymomot/statekit/pkg/engine"
//	)
//
//	type Counter struct{ N int }
//
//	func (Counter) Kind() string { return "counter" }
//	func (c Counter) Equal(other engine.State) bool {
//	    o, ok := other.(Counter)
//	    return ok && o == c
//	}
//
//	eng := engine.MustNew(Counter{})
//	defer eng.Close()
//
//	_ = eng.Register("increment", func(ctx context.Context, ev engine.Event) iter.Seq[engine.Outcome] {
//	    cur := eng.Current().(Counter)
//	    return engine.Emit(Counter{N: cur.N + 1})
//	})
//
//	tok := eng.OnState(func(s engine.State) error {
//	    fmt.Println("state:", s.(Counter).N)
//	    return nil
//	})
//	defer eng.OffState(tok)
//
//	_ = eng.Submit(context.Background(), engine.StringEvent("increment"))
//
// # Policies
//
// Two independent policies, each Strict by default:
//
//   - Submit policy: Strict fails a submission whose event kind has no
//     handler with ErrUnregisteredHandler before anything is broadcast;
//     Lenient broadcasts the event and routes the condition as a fault.
//   - Fault policy: Strict returns the first *HandlerFault from Submit and
//     stops pulling the sequence, losing not-yet-produced values; Lenient
//     absorbs faults, keeps already-committed states, and keeps pulling
//     until the handler ends its own sequence.
//
// Every fault is always broadcast to fault listeners and passed to the
// WithFaultHook hook first, regardless of policy. A fault never rolls back
// the current state.
//
// # Streams
//
// Push-style subscriptions come in pairs (OnEvent/OffEvent and so on) and
// return multicast tokens. The state stream additionally offers OnAnyState,
// which synchronously replays the current state at subscribe time, and
// Watch, a pullable buffered channel form. Weak variants (OnStateWeak, ...)
// attach a listener through a weak pointer so the engine never extends the
// subscriber's lifetime. Listen bundles a state and a fault subscription
// into one disposable handle.
//
// Listener callbacks are contractually expected not to fail: an error
// returned by any listener aborts delivery to later listeners of that raise
// and propagates out of Submit as-is.
//
// Handlers and listeners run on the submitting goroutine while the engine's
// submission lock is held; they must not call Submit or Close reentrantly.
//
// # Configuration
//
// LoadConfig reads policies, the watch buffer size, and the leak-check flag
// from STATEKIT_* environment variables (with optional .env support), and
// Config.Options feeds them to New.
//
// # Lifecycle
//
// New seeds the current state; Close completes all four streams exactly once
// and is safe to call repeatedly or concurrently. Submissions after Close
// return ErrClosed. WithLeakCheck arms an optional debug probe that logs
// when an engine is garbage collected without Close — a detector only,
// never a substitute for explicit disposal.
package engine
