package settings

import (
	"log/slog"
	"time"
)

// DefaultListenerCapacity is the number of listener slots of a registry.
const DefaultListenerCapacity = 4

type options struct {
	logger       *slog.Logger
	listeners    int
	stringPool   int
	fixedInput   []string
	fixedInputOK bool
	cmdTimeout   time.Duration
	now          func() time.Time
}

// Option configures a Registry.
type Option func(*options)

// WithLogger sets the logger used for change and persistence messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithListenerCapacity sets the number of listener slots.
func WithListenerCapacity(n int) Option {
	return func(o *options) { o.listeners = n }
}

// WithStringPool sets the number of mutable string buffers. Tables declaring
// more mutable strings than the pool holds are rejected.
func WithStringPool(n int) Option {
	return func(o *options) { o.stringPool = n }
}

// WithFixedInputKeys sets the ordered key list returned for ViewFixedInput.
func WithFixedInputKeys(keys ...string) Option {
	return func(o *options) {
		o.fixedInput = keys
		o.fixedInputOK = true
	}
}

// WithCommandTimeout discards a pending command confirmation once it is
// older than d. Zero keeps pending commands until they are answered.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *options) { o.cmdTimeout = d }
}

// WithClock sets the time source used for command timeouts.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Registry holds the values of every setting of a table. It is not safe for
// concurrent use; callers serialise access.
type Registry struct {
	settings []Setting
	byKey    map[string]int
	folders  map[FolderID]int
	children map[FolderID][]int

	store      Store
	logger     *slog.Logger
	listeners  []listener
	pool       []stringSlot
	fixedInput []int
}

// New builds a registry from the table and loads every persisted value from
// store, falling back to the declared defaults. A nil store keeps values in
// memory only.
func New(t *Table, store Store, opts ...Option) *Registry {
	o := options{
		logger:     slog.Default(),
		listeners:  DefaultListenerCapacity,
		stringPool: t.StringSlots(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.listeners < 1 {
		fail("New", "", "listener capacity must be positive")
	}
	if store == nil {
		store = NewMemoryStore()
	}

	r := &Registry{
		settings:  make([]Setting, len(t.decls)),
		byKey:     make(map[string]int, len(t.decls)),
		folders:   make(map[FolderID]int),
		children:  make(map[FolderID][]int),
		store:     store,
		logger:    o.logger,
		listeners: make([]listener, o.listeners),
		pool:      make([]stringSlot, o.stringPool),
	}

	nextSlot := 0
	for i := range t.decls {
		s := &r.settings[i]
		*s = t.decls[i]
		s.payload = s.payload.clone()
		r.byKey[s.Key] = i

		switch p := s.payload.(type) {
		case *folderPayload:
			r.folders[p.id] = i
			if p.id == RootFolder {
				continue
			}
		case *stringPayload:
			if !s.Flags.Has(FlagReadOnly) {
				if nextSlot >= len(r.pool) {
					fail("New", s.Key, "string pool of %d buffers exhausted", len(r.pool))
				}
				p.slot = &r.pool[nextSlot]
				nextSlot++
			}
		case *commandPayload:
			p.timeout = o.cmdTimeout
			p.now = o.now
		}
		r.children[s.Parent] = append(r.children[s.Parent], i)
		r.load(s)
	}

	if o.fixedInputOK {
		r.fixedInput = make([]int, 0, len(o.fixedInput))
		for _, key := range o.fixedInput {
			i, ok := r.byKey[key]
			if !ok {
				fail("New", key, "fixed input key is not declared")
			}
			r.fixedInput = append(r.fixedInput, i)
		}
	}
	return r
}

// load restores a persisted value or keeps the declared default.
func (r *Registry) load(s *Setting) {
	if s.Flags.Has(FlagReadOnly) || s.Flags.Has(FlagEphemeral) {
		return
	}
	switch p := s.payload.(type) {
	case *u8Payload:
		if v, ok := r.store.LoadU8(s.Key); ok {
			p.val = p.clamp(v)
		}
	case *stringPayload:
		if v, ok := r.store.LoadString(s.Key); ok {
			p.slot.set(v)
		}
	}
}

// Count returns the number of settings.
func (r *Registry) Count() int { return len(r.settings) }

// At returns the setting at index i in declaration order.
func (r *Registry) At(i int) *Setting { return &r.settings[i] }

// GetByKey returns the setting registered under key.
func (r *Registry) GetByKey(key string) (*Setting, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return &r.settings[i], true
}

// GetByKeyIndex returns the declaration index of key.
func (r *Registry) GetByKeyIndex(key string) (int, bool) {
	i, ok := r.byKey[key]
	return i, ok
}

// GetFolder returns the folder setting with the given id.
func (r *Registry) GetFolder(id FolderID) (*Setting, bool) {
	i, ok := r.folders[id]
	if !ok {
		return nil, false
	}
	return &r.settings[i], true
}

// Children returns the declaration indices of the direct children of a folder.
// The returned slice must not be modified.
func (r *Registry) Children(id FolderID) []int {
	return r.children[id]
}

// Must returns the setting registered under key. An unknown key is a
// mismatch between code and table and panics.
func (r *Registry) Must(key string) *Setting {
	s, ok := r.GetByKey(key)
	if !ok {
		fail("Must", key, "unknown key")
	}
	return s
}

// U8 returns the value of the u8 setting under key.
func (r *Registry) U8(key string) uint8 { return r.Must(key).U8() }

// Bool returns the value of the boolean setting under key.
func (r *Registry) Bool(key string) bool { return r.Must(key).Bool() }

// Str returns the content of the string setting under key.
func (r *Registry) Str(key string) string { return r.Must(key).Str() }

// Settings calls fn for every setting in declaration order.
func (r *Registry) Settings(fn func(s *Setting) bool) {
	for i := range r.settings {
		if !fn(&r.settings[i]) {
			return
		}
	}
}
