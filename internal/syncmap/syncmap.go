// MIT License
//
// Copyright (c) 2026 extreg contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package syncmap provides a generic mutex-guarded map for state that is
// written from more than one goroutine and cannot rely on a single caller
// held lock to serialize access — the object tables' resident rows are
// mutated by the dispatcher's deferred cleanup goroutine independently of
// whatever lock a concurrent reader holds.
package syncmap

import "sync"

// Map is a comparable-keyed map guarded by an RWMutex. Reads take the read
// lock; writes take the write lock. It is safe for concurrent use by
// multiple goroutines.
type Map[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{data: make(map[K]V)}
}

// Get returns the value stored under key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key, overwriting any existing entry.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Delete removes key, if present. It is a no-op otherwise.
func (m *Map[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Len returns the number of entries currently stored.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Range calls fn once per entry, in unspecified order, while holding the
// read lock for the full iteration. fn must not call back into m.
func (m *Map[K, V]) Range(fn func(key K, value V)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.data {
		fn(k, v)
	}
}

// LoadOrCompute returns the value already stored under key, if any.
// Otherwise it calls compute while holding the write lock, stores the
// result if compute reports found, and returns it. Holding the write lock
// across compute serializes concurrent misses on the same map so a slow or
// side-effecting compute (a cold-store fault-in, say) never runs twice for
// the same key, and never races a concurrent write into the map slot it is
// about to fill.
func (m *Map[K, V]) LoadOrCompute(key K, compute func() (V, bool, error)) (V, bool, error) {
	m.mu.RLock()
	if v, ok := m.data[key]; ok {
		m.mu.RUnlock()
		return v, true, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, true, nil
	}
	v, found, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}
	if found {
		m.data[key] = v
	}
	return v, found, nil
}
