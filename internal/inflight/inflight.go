// Package inflight tracks keys with an outstanding request.
package inflight

import (
	"sort"
	"sync"
)

type Set struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func New() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Acquire marks key busy. ok is false when the key is already held. The
// returned release is safe to call more than once.
func (s *Set) Acquire(key string) (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.keys[key]; busy {
		return func() {}, false
	}
	s.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.keys, key)
			s.mu.Unlock()
		})
	}, true
}

func (s *Set) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Keys returns the busy keys in sorted order.
func (s *Set) Keys() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	s.mu.Unlock()
	sort.Strings(out)
	return out
}
