package engine

import (
	"log/slog"
	"runtime"
	"sync/atomic"
)

// leakProbe reports engines reclaimed without Close. It holds no reference
// back to the engine so the cleanup can actually run.
type leakProbe struct {
	closed atomic.Bool
	log    *slog.Logger
}

func (p *leakProbe) disarm() {
	p.closed.Store(true)
}

func (e *Engine) armLeakProbe() {
	p := &leakProbe{log: e.log}
	e.probe = p
	runtime.AddCleanup(e, func(p *leakProbe) {
		if !p.closed.Load() {
			p.log.Warn("engine reclaimed without Close; stream subscriptions were leaked")
		}
	}, p)
}
