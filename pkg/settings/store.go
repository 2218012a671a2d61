package settings

import "sync"

// Store is the persistence backend of a registry. Values are keyed by the
// setting key. Commit is called after every persisted change.
type Store interface {
	LoadU8(key string) (uint8, bool)
	SaveU8(key string, v uint8) error
	LoadString(key string) (string, bool)
	SaveString(key string, v string) error
	Commit() error
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.Mutex
	u8s     map[string]uint8
	strs    map[string]string
	saves   int
	commits int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		u8s:  make(map[string]uint8),
		strs: make(map[string]string),
	}
}

func (m *MemoryStore) LoadU8(key string) (uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.u8s[key]
	return v, ok
}

func (m *MemoryStore) SaveU8(key string, v uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.u8s[key] = v
	m.saves++
	return nil
}

func (m *MemoryStore) LoadString(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strs[key]
	return v, ok
}

func (m *MemoryStore) SaveString(key, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strs[key] = v
	m.saves++
	return nil
}

func (m *MemoryStore) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits++
	return nil
}

// Saves returns the number of SaveU8 and SaveString calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Commits returns the number of Commit calls.
func (m *MemoryStore) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// Has reports whether any value is stored under key.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, u := m.u8s[key]
	_, s := m.strs[key]
	return u || s
}
