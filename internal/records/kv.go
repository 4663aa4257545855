// Package records keeps the persistent player data: per-tier top-10 boards,
// best scores, the player name and the settings record. Everything is
// stored as JSON values in a flat key/value namespace.
package records

import "sync"

// KV is a flat string-keyed byte store.
type KV interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
}

// MemoryKV is an in-process KV for tests and for running without a database.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements KV.
func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
