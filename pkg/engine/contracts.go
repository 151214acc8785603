package engine

// Event is an input value submitted to an Engine. Kind is the discriminant
// used for handler lookup; two events of the same concrete shape must report
// the same kind.
type Event interface {
	Kind() string
}

// State is an output value owned by an Engine. Equal defines the equality
// relation used by the distinct filter: a produced state equal to the
// current one is silently dropped. Implementations must treat states of a
// different kind as unequal.
type State interface {
	Kind() string
	Equal(other State) bool
}

// Action is an ephemeral side value a handler may trigger while producing
// states. Actions are never stored, never compared, and delivered to every
// listener once per trigger.
type Action interface {
	Kind() string
}

// StringEvent provides a simple kind-only event implementation for basic
// use cases.
type StringEvent string

func (e StringEvent) Kind() string { return string(e) }

// StringState provides a simple kind-only state implementation for basic
// use cases. Two StringState values are equal when the strings match.
type StringState string

func (s StringState) Kind() string { return string(s) }

func (s StringState) Equal(other State) bool {
	o, ok := other.(StringState)
	return ok && o == s
}

// StringAction provides a simple kind-only action implementation for basic
// use cases.
type StringAction string

func (a StringAction) Kind() string { return string(a) }
