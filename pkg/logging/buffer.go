package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ChangeMessage is the message the settings registry logs for every applied change.
const ChangeMessage = "Setting changed"

// Change is a setting change recovered from the log.
type Change struct {
	Time  time.Time `json:"time"`
	Key   string    `json:"key"`
	Value string    `json:"value"`
}

// Capture keeps the last server log line and the most recent setting changes.
type Capture struct {
	mu      sync.RWMutex
	last    string
	changes []Change
	size    int
}

// GlobalCapture is fed by the server logger set up in Init.
var GlobalCapture = NewCapture(32)

// NewCapture returns a capture remembering up to size changes.
func NewCapture(size int) *Capture {
	return &Capture{size: size}
}

// Write implements io.Writer for a text handler; every call is one record.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.last = strings.TrimRight(string(p), "\n")
	c.mu.Unlock()
	return len(p), nil
}

// LastLine returns the most recent log line.
func (c *Capture) LastLine() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Changes returns the remembered changes, oldest first.
func (c *Capture) Changes() []Change {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Change, len(c.changes))
	copy(out, c.changes)
	return out
}

func (c *Capture) record(ch Change) {
	if c.size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.changes) == c.size {
		copy(c.changes, c.changes[1:])
		c.changes = c.changes[:len(c.changes)-1]
	}
	c.changes = append(c.changes, ch)
}

// changeHandler turns ChangeMessage records into Changes.
type changeHandler struct {
	c     *Capture
	attrs []slog.Attr
}

func (h *changeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo && h.c.size > 0
}

// nolint:gocritic // r must be passed by value to implement slog.Handler
func (h *changeHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Message != ChangeMessage {
		return nil
	}
	ch := Change{Time: r.Time}
	take := func(a slog.Attr) bool {
		switch a.Key {
		case "key":
			ch.Key = a.Value.String()
		case "value":
			ch.Value = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		take(a)
	}
	r.Attrs(take)
	if ch.Key != "" {
		h.c.record(ch)
	}
	return nil
}

func (h *changeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &changeHandler{c: h.c, attrs: merged}
}

// WithGroup drops the group; registry records are never grouped.
func (h *changeHandler) WithGroup(string) slog.Handler { return h }
