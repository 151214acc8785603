package glue

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/statekit/pkg/engine"
	"github.com/dmitrymomot/statekit/pkg/multicast"
)

// Glue consumes an engine's state and action streams and re-runs derived
// work only when the relevant sub-data actually changed. It is built purely
// on the engine's public subscriptions and owns nothing of the engine
// itself.
type Glue struct {
	mu        sync.Mutex
	eng       *engine.Engine
	stateTok  multicast.Token
	actionTok multicast.Token

	bindings map[string][]binding
	actions  map[string]func(engine.Action) error

	// last full state observed on the stream; bindings diff against it only
	// when it is of the same kind as the incoming state.
	prev    engine.State
	hasPrev bool

	closeOnce sync.Once
}

// binding recomputes one selector over the incoming state and fires its
// callback when the selected value changed. prevSameKind reports whether
// prev is a valid same-kind predecessor to diff against.
type binding func(prev engine.State, prevSameKind bool, next engine.State) error

// New creates a glue instance subscribed to e's state and action streams
// from the next emission onward.
func New(e *engine.Engine) *Glue {
	g := &Glue{
		eng:      e,
		bindings: make(map[string][]binding),
		actions:  make(map[string]func(engine.Action) error),
	}
	g.stateTok = e.OnState(g.onState)
	g.actionTok = e.OnAction(g.onAction)
	return g
}

func (g *Glue) onState(s engine.State) error {
	g.mu.Lock()
	prev, had := g.prev, g.hasPrev
	g.prev, g.hasPrev = s, true
	bs := slices.Clone(g.bindings[s.Kind()])
	g.mu.Unlock()

	prevSameKind := had && prev.Kind() == s.Kind()
	for _, b := range bs {
		if err := b(prev, prevSameKind, s); err != nil {
			return err
		}
	}
	return nil
}

func (g *Glue) onAction(a engine.Action) error {
	g.mu.Lock()
	h := g.actions[a.Kind()]
	g.mu.Unlock()

	if h == nil {
		return nil
	}
	return h(a)
}

// Clause scopes bindings to one state kind; see When and Bind.
type Clause struct {
	g    *Glue
	kind string
}

// When returns a clause for registering selector bindings under one state
// kind.
func (g *Glue) When(kind string) *Clause {
	return &Clause{g: g, kind: kind}
}

func (g *Glue) addBinding(kind string, b binding) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bindings[kind] = append(g.bindings[kind], b)
}

// HandleAction registers at most one handler per action kind, silently
// replacing any previous registration. The handler fires unconditionally on
// every occurrence of the action — no equality check, no deduplication.
// A nil fn removes the registration.
func (g *Glue) HandleAction(kind string, fn func(engine.Action) error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if fn == nil {
		delete(g.actions, kind)
		return
	}
	g.actions[kind] = fn
}

// Close unsubscribes from the engine's streams and clears all bindings and
// action handlers. It is idempotent.
func (g *Glue) Close() error {
	g.closeOnce.Do(func() {
		g.eng.OffState(g.stateTok)
		g.eng.OffAction(g.actionTok)

		g.mu.Lock()
		clear(g.bindings)
		clear(g.actions)
		g.prev = nil
		g.hasPrev = false
		g.mu.Unlock()
	})
	return nil
}
