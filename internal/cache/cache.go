package cache

import "sync"

// EvictFunc releases a value evicted from the cache. It runs while the
// cache lock is held, so it must not call back into the cache.
type EvictFunc[K comparable, V any] func(key K, value V)

// Cache is a thread-safe LRU cache with a hard entry limit. Inserting
// past the limit evicts the least recently used entry through the
// eviction callback.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	list    lruList[K]
	limit   int
	onEvict EvictFunc[K, V]

	hits      uint64
	misses    uint64
	evictions uint64
}

// entry pairs a cached value with its position in the recency list.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache holding at most limit entries. A limit of 0
// means unlimited. onEvict may be nil when evicted values need no
// teardown.
func New[K comparable, V any](limit int, onEvict EvictFunc[K, V]) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[K, V]),
		limit:   limit,
		onEvict: onEvict,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.list.MoveToFront(e.node)
	return e.value, true
}

// GetOrCreate returns the cached value or builds it under the lock, so
// concurrent callers never create the same resource twice. A create
// error is returned as-is and caches nothing.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.list.MoveToFront(e.node)
		return e.value, nil
	}
	c.misses++

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.insert(key, value)
	return value, nil
}

// Delete removes an entry without running the eviction callback; the
// caller owns the teardown. Returns false when the key is absent.
func (c *Cache[K, V]) Delete(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.Remove(e.node)
	delete(c.entries, key)
	return e.value, true
}

// Clear evicts every entry, oldest first, running the callback for
// each.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		key, ok := c.list.RemoveOldest()
		if !ok {
			return
		}
		e := c.entries[key]
		delete(c.entries, key)
		if c.onEvict != nil && e != nil {
			c.onEvict(key, e.value)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// insert stores a new entry and evicts the oldest one past the limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) insert(key K, value V) {
	c.entries[key] = &entry[K, V]{
		value: value,
		node:  c.list.PushFront(key),
	}
	if c.limit <= 0 || len(c.entries) <= c.limit {
		return
	}

	oldKey, ok := c.list.RemoveOldest()
	if !ok {
		return
	}
	old := c.entries[oldKey]
	delete(c.entries, oldKey)
	c.evictions++
	if c.onEvict != nil && old != nil {
		c.onEvict(oldKey, old.value)
	}
}

// Stats describes cache occupancy and effectiveness.
type Stats struct {
	// Len is the current number of entries.
	Len int

	// Capacity is the entry limit, 0 for unlimited.
	Capacity int

	// Hits counts lookups that found an entry.
	Hits uint64

	// Misses counts lookups that did not.
	Misses uint64

	// Evictions counts entries removed by the limit.
	Evictions uint64
}
