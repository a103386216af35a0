package cache

import (
	"strings"
	"sync"
)

// MemoryStore is a process-local Store. It backs tests and deployments that
// do not need the cache to survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.items[key] = stored
	return nil
}

func (s *MemoryStore) DeletePrefix(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			delete(s.items, k)
		}
	}
	return nil
}

func (s *MemoryStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for k, v := range s.items {
		total += int64(len(k) + len(v))
	}
	return Stats{Count: len(s.items), TotalBytes: total}, nil
}
