package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/statekit/pkg/multicast"
)

// DefaultWatchBuffer is the buffer size of Watch channels unless overridden
// with WithWatchBuffer.
const DefaultWatchBuffer = 16

// Engine is a reactive state container: it accepts events one at a time,
// drives the registered handler for each, applies the distinct filter to the
// produced states, and fans events, states, actions, and faults out to four
// independent streams.
//
// A single mutex serializes submissions, so one submission's entire outcome
// sequence is drained before the next is accepted. Distinct engines share
// nothing and need no coordination.
type Engine struct {
	mu      sync.Mutex // serializes Submit, any-state replay, Close
	stateMu sync.RWMutex
	current State

	reg     *registry
	events  *multicast.Dispatcher[Event]
	states  *multicast.Dispatcher[State]
	actions *multicast.Dispatcher[Action]
	faults  *multicast.Dispatcher[*HandlerFault]

	submitPolicy Policy
	faultPolicy  Policy
	hook         func(*HandlerFault)
	log          *slog.Logger
	watchBuf     int
	leakCheck    bool
	probe        *leakProbe

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates an engine seeded with the given initial state. The seed is the
// engine's first published value: it is immediately observable through
// Current and replayed to any-form state subscribers.
func New(initial State, opts ...Option) (*Engine, error) {
	if initial == nil {
		return nil, ErrNilState
	}

	e := &Engine{
		current:  initial,
		reg:      newRegistry(),
		events:   multicast.New[Event](),
		states:   multicast.New[State](),
		actions:  multicast.New[Action](),
		faults:   multicast.New[*HandlerFault](),
		log:      slog.New(slog.DiscardHandler),
		watchBuf: DefaultWatchBuffer,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.leakCheck {
		e.armLeakProbe()
	}

	return e, nil
}

// MustNew creates a new engine and panics if any option fails to apply.
func MustNew(initial State, opts ...Option) *Engine {
	e, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create engine: %v", err))
	}
	return e
}

// Register maps an event kind to its handler. At most one handler may exist
// per kind; a duplicate registration fails with ErrDuplicateHandler and
// leaves the registry untouched.
func (e *Engine) Register(kind string, h Handler) error {
	return e.reg.register(kind, h)
}

// Current returns the engine's current state. It is always defined, seeded
// at construction, and remains readable after Close.
func (e *Engine) Current() State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.current
}

// Submit processes one event to completion before the next submission is
// accepted.
//
// Under the strict submit policy an event with no registered handler fails
// with ErrUnregisteredHandler: the state is untouched and the event is never
// broadcast. Under the lenient policy the event is broadcast first and the
// missing handler is routed as a *HandlerFault like any other fault.
//
// With a handler present, the raw event is broadcast to event listeners and
// the handler's outcome sequence is drained: produced states pass the
// distinct filter before being committed and broadcast, actions are
// broadcast immediately and unfiltered, and faults are routed to fault
// listeners and the fault hook. Under the strict fault policy the first
// fault stops the drain and is returned; under the lenient policy faults are
// absorbed and the drain continues until the handler ends its sequence.
//
// Errors returned by listeners themselves propagate out of Submit untouched;
// they are not handler faults.
func (e *Engine) Submit(ctx context.Context, ev Event) error {
	if ev == nil {
		return ErrNilEvent
	}
	if e.closed.Load() {
		return ErrClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Re-check under the lock: Close may have won the race.
	if e.closed.Load() {
		return ErrClosed
	}

	h, ok := e.reg.lookup(ev.Kind())
	if !ok {
		if e.submitPolicy == Strict {
			return fmt.Errorf("%w: %s", ErrUnregisteredHandler, ev.Kind())
		}
		if err := e.events.Raise(ev); err != nil {
			return err
		}
		return e.route(ev, fmt.Errorf("%w: %s", ErrUnregisteredHandler, ev.Kind()))
	}

	if err := e.events.Raise(ev); err != nil {
		return err
	}

	for out := range h(ctx, ev) {
		switch {
		case out.err != nil:
			if err := e.route(ev, out.err); err != nil {
				return err
			}
		case out.action != nil:
			if err := e.actions.Raise(out.action); err != nil {
				return err
			}
		case out.state != nil:
			if err := e.commit(out.state); err != nil {
				return err
			}
		}
	}
	return nil
}

// commit applies the distinct filter: equal states are dropped, unequal ones
// become current and are broadcast to state listeners.
func (e *Engine) commit(s State) error {
	e.stateMu.RLock()
	cur := e.current
	e.stateMu.RUnlock()

	if cur.Equal(s) {
		return nil
	}

	e.stateMu.Lock()
	e.current = s
	e.stateMu.Unlock()

	e.log.Debug("state changed", "kind", s.Kind())
	return e.states.Raise(s)
}

// route forwards a fault to fault listeners and the fault hook. Under the
// strict fault policy the fault is returned for Submit to re-raise.
func (e *Engine) route(ev Event, err error) error {
	fault := &HandlerFault{Event: ev, Err: err}
	e.log.Debug("handler fault", "event", ev.Kind(), "err", err)

	if rerr := e.faults.Raise(fault); rerr != nil {
		return rerr
	}
	if e.hook != nil {
		e.hook(fault)
	}
	if e.faultPolicy == Strict {
		return fault
	}
	return nil
}

// OnEvent subscribes to raw submitted events, from the next submission on.
func (e *Engine) OnEvent(fn func(Event) error, opts ...multicast.SubscribeOption) multicast.Token {
	return e.events.Subscribe(fn, opts...)
}

// OffEvent removes an event subscription.
func (e *Engine) OffEvent(tok multicast.Token) bool {
	return e.events.Unsubscribe(tok)
}

// OnState subscribes to state changes, from the next emission on.
func (e *Engine) OnState(fn func(State) error, opts ...multicast.SubscribeOption) multicast.Token {
	return e.states.Subscribe(fn, opts...)
}

// OffState removes a state subscription.
func (e *Engine) OffState(tok multicast.Token) bool {
	return e.states.Unsubscribe(tok)
}

// OnAnyState subscribes to state changes and synchronously replays the
// current state to fn before returning, so the listener always observes a
// defined value. A replay error removes the subscription and is returned.
// On a closed engine no replay happens and a zero token is returned.
func (e *Engine) OnAnyState(fn func(State) error, opts ...multicast.SubscribeOption) (multicast.Token, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tok := e.states.Subscribe(fn, opts...)
	if tok.IsZero() {
		return tok, nil
	}
	if err := fn(e.Current()); err != nil {
		e.states.Unsubscribe(tok)
		return multicast.Token{}, err
	}
	return tok, nil
}

// OnAction subscribes to triggered actions, undiffed and unfiltered.
func (e *Engine) OnAction(fn func(Action) error, opts ...multicast.SubscribeOption) multicast.Token {
	return e.actions.Subscribe(fn, opts...)
}

// OffAction removes an action subscription.
func (e *Engine) OffAction(tok multicast.Token) bool {
	return e.actions.Unsubscribe(tok)
}

// OnFault subscribes to routed handler faults.
func (e *Engine) OnFault(fn func(*HandlerFault) error, opts ...multicast.SubscribeOption) multicast.Token {
	return e.faults.Subscribe(fn, opts...)
}

// OffFault removes a fault subscription.
func (e *Engine) OffFault(tok multicast.Token) bool {
	return e.faults.Unsubscribe(tok)
}

// OnEventWeak subscribes target to raw events without keeping it alive; see
// multicast.Weak.
func OnEventWeak[R any](e *Engine, target *R, fn func(*R, Event) error) multicast.Token {
	return multicast.Weak(e.events, target, fn)
}

// OnStateWeak subscribes target to state changes without keeping it alive.
func OnStateWeak[R any](e *Engine, target *R, fn func(*R, State) error) multicast.Token {
	return multicast.Weak(e.states, target, fn)
}

// OnActionWeak subscribes target to actions without keeping it alive.
func OnActionWeak[R any](e *Engine, target *R, fn func(*R, Action) error) multicast.Token {
	return multicast.Weak(e.actions, target, fn)
}

// OnFaultWeak subscribes target to faults without keeping it alive.
func OnFaultWeak[R any](e *Engine, target *R, fn func(*R, *HandlerFault) error) multicast.Token {
	return multicast.Weak(e.faults, target, fn)
}

// Close completes all four streams exactly once and marks the engine closed.
// It is idempotent and safe to call from multiple paths concurrently.
// Submissions after Close return ErrClosed; Current stays readable.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)

		// Wait for an in-flight submission to finish draining.
		e.mu.Lock()
		defer e.mu.Unlock()

		_ = e.events.Close()
		_ = e.states.Close()
		_ = e.actions.Close()
		_ = e.faults.Close()

		if e.probe != nil {
			e.probe.disarm()
		}
		e.log.Debug("engine closed")
	})
	return nil
}
