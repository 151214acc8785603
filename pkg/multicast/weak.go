package multicast

import "weak"

// Weak registers fn as a listener bound to target without keeping target
// alive. Each raise resolves the weak pointer first: while target is
// reachable fn is invoked with it, and once the runtime reclaims target the
// subscription is silently skipped and pruned on the next Raise call.
//
// The returned token behaves exactly like a strong subscription token and
// may still be passed to Unsubscribe before reclamation.
func Weak[R any, T any](d *Dispatcher[T], target *R, fn func(*R, T) error, opts ...SubscribeOption) Token {
	ref := weak.Make(target)
	return d.add(func() (func(T) error, bool) {
		r := ref.Value()
		if r == nil {
			return nil, false
		}
		return func(v T) error {
			return fn(r, v)
		}, true
	}, opts...)
}
