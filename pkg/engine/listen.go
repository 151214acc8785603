package engine

import (
	"sync"

	"github.com/dmitrymomot/statekit/pkg/multicast"
)

// Subscription is a disposable handle over one or more stream subscriptions.
// Close is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Listen combines a next-form state subscription and a fault subscription
// into one disposable handle. Nil callbacks default to no-ops; onDone fires
// once when the engine's streams complete.
func (e *Engine) Listen(onState func(State) error, onFault func(*HandlerFault) error, onDone func()) *Subscription {
	if onState == nil {
		onState = func(State) error { return nil }
	}
	if onFault == nil {
		onFault = func(*HandlerFault) error { return nil }
	}

	var stateOpts []multicast.SubscribeOption
	if onDone != nil {
		stateOpts = append(stateOpts, multicast.WithDone(onDone))
	}

	st := e.states.Subscribe(onState, stateOpts...)
	ft := e.faults.Subscribe(onFault)

	return &Subscription{cancel: func() {
		e.states.Unsubscribe(st)
		e.faults.Unsubscribe(ft)
	}}
}
