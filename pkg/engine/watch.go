package engine

import (
	"context"
	"sync"

	"github.com/dmitrymomot/statekit/pkg/multicast"
)

// watcher owns one Watch channel. Sends and the close are serialized through
// the mutex so a context-driven close can never race an in-flight raise into
// a send on a closed channel.
type watcher struct {
	ch     chan State
	mu     sync.RWMutex
	closed bool
}

func (w *watcher) send(s State) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.ch <- s:
	default:
		// Single consumer is assumed to keep pace; drop rather than block
		// the submission.
	}
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}

// Watch returns a channel delivering state changes from the next emission
// onward, the pullable counterpart of OnState. The channel is buffered (see
// WithWatchBuffer) and sends never block the engine: while the buffer is
// full, new states are dropped until the consumer catches up.
//
// The channel is closed when the engine closes or when ctx is cancelled,
// whichever happens first.
func (e *Engine) Watch(ctx context.Context) <-chan State {
	w := &watcher{ch: make(chan State, e.watchBuf)}
	stop := make(chan struct{})

	var once sync.Once
	finish := func() {
		once.Do(func() {
			w.close()
			close(stop)
		})
	}

	tok := e.states.Subscribe(func(s State) error {
		w.send(s)
		return nil
	}, multicast.WithDone(finish))

	// Subscribe on a closed engine already ran finish via WithDone.
	if tok.IsZero() {
		return w.ch
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				e.states.Unsubscribe(tok)
				finish()
			case <-stop:
			}
		}()
	}

	return w.ch
}
