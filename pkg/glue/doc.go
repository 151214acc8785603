// Package glue binds derived values and side effects to an engine's streams,
// re-rendering only when the selected sub-data actually changed.
//
// A Glue instance subscribes to an engine's state and action streams at
// construction. Selector bindings are declared per state kind through a
// small builder, and action handlers are registered one per action kind.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/statekit/pkg/engine"
//	    "github.com/dmitrymomot/statekit/pkg/glue"
//	)
//
//	g := glue.New(eng)
//	defer g.Close()
//
//	c := g.When("game")
//	glue.Bind(c, func(s GameState) int { return s.Score },
//	    func(score int) error {
//	        scoreLabel.SetText(strconv.Itoa(score))
//	        return nil
//	    })
//	glue.Bind(c, func(s GameState) string { return s.PlayerName },
//	    func(name string) error {
//	        nameLabel.SetText(name)
//	        return nil
//	    })
//
//	glue.OnAction(g, "jump", func(a JumpAction) error {
//	    audio.Play(a.Sound)
//	    return nil
//	})
//
// # Diffing semantics
//
// A binding fires when its selected value changed between two consecutive
// states of the same kind, and fires unconditionally the first time its
// kind appears after a state of a different kind — there is no valid
// previous value to diff against, so the derived value must be re-rendered.
// Bindings never share caches: each recomputes its own selector over the
// full previous state.
//
// Action handlers have no diffing at all; they fire once per occurrence
// even for structurally identical payloads.
//
// # Lifecycle
//
// Close unsubscribes from both streams and clears every binding; it is
// idempotent and must be called so a discarded Glue does not keep receiving
// broadcasts. Callback errors are not handled specially: they propagate
// synchronously through the engine's broadcast and out of Submit.
package glue
