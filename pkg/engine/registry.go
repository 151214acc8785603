package engine

import (
	"fmt"
	"sync"
)

// registry maps an event kind to exactly one handler. Registration is
// expected at construction time but remains valid for the engine's whole
// active lifetime.
type registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func newRegistry() *registry {
	return &registry{
		handlers: make(map[string]Handler),
	}
}

func (r *registry) register(kind string, h Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}
	r.handlers[kind] = h
	return nil
}

func (r *registry) lookup(kind string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[kind]
	return h, ok
}
