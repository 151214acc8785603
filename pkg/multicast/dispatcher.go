package multicast

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Token identifies a single subscription. Dropping a token without calling
// Unsubscribe leaks the subscription for strong listeners; weak listeners
// (see Weak) are pruned automatically once their target is reclaimed.
type Token struct {
	id uuid.UUID
}

// IsZero reports whether the token does not identify a subscription, e.g.
// when Subscribe was called on an already closed dispatcher.
func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	done func()
}

// WithDone registers a callback invoked exactly once when the dispatcher is
// closed. Explicit unsubscription and weak-target reclamation do not count
// as completion and never trigger the callback.
func WithDone(fn func()) SubscribeOption {
	return func(cfg *subscribeConfig) {
		cfg.done = fn
	}
}

type entry[T any] struct {
	tok Token
	// resolve returns the callable listener, or false when the listener is
	// gone and the entry should be pruned.
	resolve func() (func(T) error, bool)
	done    func()
}

// Dispatcher fans a value out to every live listener, synchronously and in
// subscription order. All methods are safe for concurrent use, though a
// single Raise call runs listeners sequentially on the caller's goroutine.
type Dispatcher[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
	live    map[uuid.UUID]struct{}
	closed  bool
}

// New creates an empty dispatcher.
func New[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{
		live: make(map[uuid.UUID]struct{}),
	}
}

// Subscribe registers fn as a strong listener and returns its token.
// Subscribing to a closed dispatcher returns a zero token and, if a WithDone
// callback was supplied, invokes it immediately.
func (d *Dispatcher[T]) Subscribe(fn func(T) error, opts ...SubscribeOption) Token {
	return d.add(func() (func(T) error, bool) {
		return fn, true
	}, opts...)
}

func (d *Dispatcher[T]) add(resolve func() (func(T) error, bool), opts ...SubscribeOption) Token {
	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		if cfg.done != nil {
			cfg.done()
		}
		return Token{}
	}

	tok := Token{id: uuid.New()}
	d.entries = append(d.entries, entry[T]{tok: tok, resolve: resolve, done: cfg.done})
	d.live[tok.id] = struct{}{}
	d.mu.Unlock()

	return tok
}

// Unsubscribe removes the subscription identified by tok. It reports whether
// a subscription was actually removed. The WithDone callback, if any, is not
// invoked.
func (d *Dispatcher[T]) Unsubscribe(tok Token) bool {
	if tok.IsZero() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeLocked(tok)
}

func (d *Dispatcher[T]) removeLocked(tok Token) bool {
	if _, ok := d.live[tok.id]; !ok {
		return false
	}
	delete(d.live, tok.id)
	d.entries = slices.DeleteFunc(d.entries, func(e entry[T]) bool {
		return e.tok == tok
	})
	return true
}

// Raise invokes every live listener with v, in subscription order. The first
// error returned by a listener aborts delivery to later listeners and is
// returned to the caller. Listeners unsubscribed mid-raise (including by an
// earlier listener in the same call) are skipped, as are weak listeners whose
// target has been reclaimed. Raise on a closed dispatcher returns ErrClosed.
func (d *Dispatcher[T]) Raise(v T) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	snapshot := slices.Clone(d.entries)
	d.mu.RUnlock()

	var dead []Token
	for _, e := range snapshot {
		if !d.has(e.tok) {
			continue
		}
		fn, ok := e.resolve()
		if !ok {
			dead = append(dead, e.tok)
			continue
		}
		if err := fn(v); err != nil {
			d.prune(dead)
			return err
		}
	}
	d.prune(dead)
	return nil
}

func (d *Dispatcher[T]) has(tok Token) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.live[tok.id]
	return ok
}

func (d *Dispatcher[T]) prune(dead []Token) {
	if len(dead) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, tok := range dead {
		d.removeLocked(tok)
	}
}

// Len returns the number of registered subscriptions, counting weak listeners
// whose reclamation has not been observed by a Raise call yet.
func (d *Dispatcher[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Close marks the dispatcher closed and invokes each subscription's WithDone
// callback exactly once, in subscription order. It is safe to call Close
// multiple times; only the first call has any effect.
func (d *Dispatcher[T]) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	entries := d.entries
	d.entries = nil
	clear(d.live)
	d.mu.Unlock()

	for _, e := range entries {
		if e.done != nil {
			e.done()
		}
	}
	return nil
}
