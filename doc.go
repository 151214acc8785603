// Package statekit provides a small, type-safe toolkit for reactive state
// management in Go: events in, distinct states out, with actions, faults,
// and change-driven derived values as first-class streams.
//
// StateKit is split into three focused packages:
//
//   - pkg/multicast — a synchronous, ordered broadcast primitive with
//     explicit subscription tokens and an optional weak listener mode
//   - pkg/engine — the event/state engine: per-kind handlers producing
//     lazy outcome sequences, a distinct-until-changed state stream,
//     unfiltered action delivery, and configurable fault policies
//   - pkg/glue — selector bindings that re-run derived work only when the
//     selected sub-data actually changed, plus per-kind action handlers
//
// The root package carries no code; import the subpackages directly:
//
//	import (
//	    "github.com/dmitrymomot/statekit/pkg/engine"
//	    "github.com/dmitrymomot/statekit/pkg/glue"
//	    "github.com/dmitrymomot/statekit/pkg/multicast"
//	)
package statekit
