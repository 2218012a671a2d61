package api

import (
	"sync"

	"linkcfg/pkg/settings"
)

// Guard serialises access to a registry shared by HTTP handlers and
// background jobs. Listener callbacks run while the lock is held.
type Guard struct {
	mu  sync.Mutex
	reg *settings.Registry
}

// NewGuard wraps reg.
func NewGuard(reg *settings.Registry) *Guard {
	return &Guard{reg: reg}
}

// Do runs fn with exclusive access to the registry.
func (g *Guard) Do(fn func(r *settings.Registry)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.reg)
}
