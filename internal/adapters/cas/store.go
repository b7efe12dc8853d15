// Package cas provides the in-memory dynamic-dependency parse cache,
// repurposed from the teacher's adapters/cas/store.go disk-persisted
// BuildInfoStore: content-addressed by an xxhash digest rather than a
// task name, and never written to disk — the whole point of this
// memo is to survive only as long as one Engine.Build call.
package cas

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Store implements ports.DynamicCache with an in-memory map keyed by the
// xxhash digest of the file content that was parsed.
type Store struct {
	mu    sync.RWMutex
	cache map[uint64][]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{cache: make(map[uint64][]string)}
}

// Lookup returns the cached parse of content, if any.
func (s *Store) Lookup(content []byte) ([]string, bool) {
	key := xxhash.Sum64(content)
	s.mu.RLock()
	defer s.mu.RUnlock()
	names, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, true
}

// Store records names as the parse result for content.
func (s *Store) Store(content []byte, names []string) {
	key := xxhash.Sum64(content)
	cp := make([]string, len(names))
	copy(cp, names)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cp
}
