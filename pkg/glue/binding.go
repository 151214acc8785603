package glue

import (
	"fmt"

	"github.com/dmitrymomot/statekit/pkg/engine"
)

// Bind registers one selector binding under the clause's state kind and
// returns the clause for chaining further bindings.
//
// On every emission of a state with that kind, the binding recomputes
// selector(next). If the immediately preceding state on the stream was of
// the same kind, selector(prev) is recomputed too and the callback fires
// only when the two selected values differ; after a state of a different
// kind (or with no predecessor at all) the callback fires unconditionally.
// Bindings under one kind are independent: each re-derives its own
// comparison from the full previous state.
//
// The callback's error propagates synchronously through the state broadcast
// and out of Submit; callbacks are expected not to fail.
func Bind[S engine.State, V comparable](c *Clause, selector func(S) V, callback func(V) error) *Clause {
	c.g.addBinding(c.kind, func(prev engine.State, prevSameKind bool, next engine.State) error {
		ns, ok := next.(S)
		if !ok {
			return fmt.Errorf("%w: kind %q carries %T", ErrStateMismatch, next.Kind(), next)
		}

		nv := selector(ns)
		if prevSameKind {
			if ps, ok := prev.(S); ok && selector(ps) == nv {
				return nil
			}
		}
		return callback(nv)
	})
	return c
}

// OnAction registers a typed action handler under kind, replacing any
// previous handler for that kind. See Glue.HandleAction for firing
// semantics.
func OnAction[A engine.Action](g *Glue, kind string, fn func(A) error) {
	g.HandleAction(kind, func(a engine.Action) error {
		ta, ok := a.(A)
		if !ok {
			return fmt.Errorf("%w: kind %q carries %T", ErrActionMismatch, a.Kind(), a)
		}
		return fn(ta)
	})
}
