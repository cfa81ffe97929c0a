package sets

import "sync"

// Set is a simple generic hash set for comparable keys.
// Intentionally minimal: no reflection, no iteration helpers beyond range.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Delete removes v if present.
func (s Set[T]) Delete(v T) { delete(s, v) }

// Clone returns a shallow copy.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sync is a Set guarded by a mutex. The zero value is ready to use.
type Sync[T comparable] struct {
	mu sync.Mutex
	m  Set[T]
}

// NewSync creates a synchronized set pre-populated with vals.
func NewSync[T comparable](vals ...T) *Sync[T] {
	return &Sync[T]{m: New(vals...)}
}

// Has returns true if v is present.
func (s *Sync[T]) Has(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Has(v)
}

// Add inserts v.
func (s *Sync[T]) Add(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(Set[T])
	}
	s.m.Add(v)
}

// AddIfAbsent inserts v and reports whether it was newly added.
func (s *Sync[T]) AddIfAbsent(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m.Has(v) {
		return false
	}
	if s.m == nil {
		s.m = make(Set[T])
	}
	s.m.Add(v)
	return true
}

// Len returns the number of elements.
func (s *Sync[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
