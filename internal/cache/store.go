// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import "sync"

// Store is an ordered collection keyed by K, rebuilt wholesale on reload.
type Store[K comparable, T any] struct {
	mu      sync.RWMutex
	key     func(T) K
	items   []T
	index   map[K]int
	issued  uint64
	applied uint64
	loaded  bool
}

// NewStore creates an empty store that indexes items by key.
func NewStore[K comparable, T any](key func(T) K) *Store[K, T] {
	return &Store[K, T]{key: key, index: make(map[K]int)}
}

// Begin numbers a new reload. Pass the result to Replace.
func (s *Store[K, T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Replace clears the store and rebuilds it from items, in order.
// It returns false when a newer reload has already been applied.
func (s *Store[K, T]) Replace(seq uint64, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		return false
	}
	s.applied = seq
	s.items = make([]T, len(items))
	copy(s.items, items)
	s.index = make(map[K]int, len(items))
	for i, item := range s.items {
		s.index[s.key(item)] = i
	}
	s.loaded = true
	return true
}

// Clear empties the store without counting as a reload.
func (s *Store[K, T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[K]int)
	s.loaded = false
}

// Items returns a copy of the items in backend order.
func (s *Store[K, T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up an item by key.
func (s *Store[K, T]) Get(k K) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[k]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Has reports whether an item with key k is present.
func (s *Store[K, T]) Has(k K) bool {
	_, ok := s.Get(k)
	return ok
}

// At returns the item at position i.
func (s *Store[K, T]) At(i int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Len returns the number of items.
func (s *Store[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Loaded reports whether any reload has been applied since the last Clear.
func (s *Store[K, T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
