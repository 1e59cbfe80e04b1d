package registry

import "sync"

// Registry is a concurrency-safe keyed table that remembers insertion order.
// Entries are never removed.
type Registry[K comparable, V any] struct {
	mu     sync.RWMutex
	index  map[K]int
	keys   []K
	values []V
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{index: make(map[K]int)}
}

func (r *Registry[K, V]) insert(key K, value V) {
	r.index[key] = len(r.keys)
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
}

// Register adds a value. A key that is already present fails with
// ErrDuplicate and keeps its first value.
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[key]; ok {
		return ErrDuplicate
	}
	r.insert(key, value)
	return nil
}

// Get returns the value for key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return r.values[i], true
}

// Has reports whether key is present.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]K(nil), r.keys...)
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// GetOrCreate returns the value for key, inserting create() when it is
// missing. create runs at most once per key.
func (r *Registry[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := r.Get(key); ok {
		return v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[key]; ok {
		return r.values[i]
	}
	v := create()
	r.insert(key, v)
	return v
}
