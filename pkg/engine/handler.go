package engine

import (
	"context"
	"fmt"
	"iter"
)

// Outcome is a single value produced while handling an event: a state for
// the distinct filter, a triggered action, or a reported fault. Construct
// outcomes with Next, Trigger, or Fail.
type Outcome struct {
	state  State
	action Action
	err    error
}

// Next produces a state value. The engine commits it only when it differs
// from the current state under the state's equality relation.
func Next(s State) Outcome {
	return Outcome{state: s}
}

// Trigger produces an action. Actions bypass the distinct filter and reach
// every action listener exactly once per trigger.
func Trigger(a Action) Outcome {
	return Outcome{action: a}
}

// Fail reports a fault without necessarily terminating the sequence. Under
// the lenient fault policy the engine keeps pulling subsequent outcomes; to
// stop producing after a fault, return from the sequence after yielding it.
func Fail(err error) Outcome {
	return Outcome{err: err}
}

// Handler maps one event to a lazily produced sequence of outcomes. The
// engine drains the sequence to completion within a single Submit call, so
// a handler may suspend between yields (awaiting internal work) without ever
// interleaving two submissions.
type Handler func(ctx context.Context, ev Event) iter.Seq[Outcome]

// Emit builds a handler body that eagerly yields the given states in order.
// Convenience for handlers with no actions, faults, or suspension:
//
//	eng.Register("increment", func(ctx context.Context, ev engine.Event) iter.Seq[engine.Outcome] {
//	    return engine.Emit(Counter{N: cur.N + 1})
//	})
func Emit(states ...State) iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		for _, s := range states {
			if !yield(Next(s)) {
				return
			}
		}
	}
}

// HandlerFor adapts a handler written against a concrete event type to the
// untyped Handler signature, recovering the static type at dispatch time.
// A kind registered with a mismatching concrete type surfaces as a fault on
// the first submission rather than a panic.
func HandlerFor[E Event](fn func(ctx context.Context, ev E) iter.Seq[Outcome]) Handler {
	return func(ctx context.Context, ev Event) iter.Seq[Outcome] {
		te, ok := ev.(E)
		if !ok {
			return func(yield func(Outcome) bool) {
				yield(Fail(fmt.Errorf("%w: event kind %q carries %T", ErrEventMismatch, ev.Kind(), ev)))
			}
		}
		return fn(ctx, te)
	}
}
