package store

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// SettingsAdapter persists registry values in the persistent_state table.
// Saves are buffered and written in a single transaction on Commit.
type SettingsAdapter struct {
	state   StateStore
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]string
}

// NewSettingsAdapter returns an adapter writing through state.
func NewSettingsAdapter(state StateStore) *SettingsAdapter {
	return &SettingsAdapter{
		state:   state,
		timeout: 5 * time.Second,
		pending: make(map[string]string),
	}
}

func (a *SettingsAdapter) lookup(key string) (string, bool) {
	a.mu.Lock()
	v, ok := a.pending[key]
	a.mu.Unlock()
	if ok {
		return v, true
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return a.state.GetState(ctx, key)
}

func (a *SettingsAdapter) LoadU8(key string) (uint8, bool) {
	raw, ok := a.lookup(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func (a *SettingsAdapter) SaveU8(key string, v uint8) error {
	return a.SaveString(key, strconv.Itoa(int(v)))
}

func (a *SettingsAdapter) LoadString(key string) (string, bool) {
	return a.lookup(key)
}

func (a *SettingsAdapter) SaveString(key, v string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[key] = v
	return nil
}

// Commit flushes buffered saves. On failure they stay buffered for the next Commit.
func (a *SettingsAdapter) Commit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.state.SetStates(ctx, a.pending); err != nil {
		return err
	}
	a.pending = make(map[string]string)
	return nil
}

// Pending returns the number of buffered saves.
func (a *SettingsAdapter) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}
