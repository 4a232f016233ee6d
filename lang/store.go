package lang

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Store holds the variable bindings an equation reads and assigns.
//
// Keys are non-empty, case-sensitive, dotted identifiers such as
// "movie.price". Get reports false for a key that has never been set.
type Store interface {
	Get(key string) (Value, bool)
	Set(key string, v Value)
}

// MapStore is the default [Store], backed by a Go map.
// It is not safe for concurrent use; see [SyncStore].
type MapStore map[string]Value

// NewMapStore returns a MapStore populated from host-native values.
func NewMapStore(vars map[string]any) (MapStore, error) {
	m := make(MapStore, len(vars))

	for key, raw := range vars {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, WrapError(err).With(slog.String("key", key))
		}

		m[key] = v
	}

	return m, nil
}

// Get implements [Store].
func (m MapStore) Get(key string) (Value, bool) {
	v, ok := m[key]

	return v, ok
}

// Set implements [Store].
func (m MapStore) Set(key string, v Value) { m[key] = v }

// Delete removes key from the store.
func (m MapStore) Delete(key string) { delete(m, key) }

// Len returns the number of bindings.
func (m MapStore) Len() int { return len(m) }

// Keys returns all bound keys in sorted order.
func (m MapStore) Keys() []string { return slices.Sorted(maps.Keys(m)) }

// SyncStore guards another [Store] with a read-write mutex so that one store
// can be shared by evaluations running on several goroutines.
type SyncStore struct {
	store Store
	mu    sync.RWMutex
}

// NewSyncStore wraps s. A nil s wraps a new empty [MapStore].
func NewSyncStore(s Store) *SyncStore {
	if s == nil {
		s = make(MapStore)
	}

	return &SyncStore{store: s}
}

// Get implements [Store].
func (s *SyncStore) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Get(key)
}

// Set implements [Store].
func (s *SyncStore) Set(key string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Set(key, v)
}
