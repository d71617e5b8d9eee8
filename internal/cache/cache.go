// Package cache provides the bounded decode caches shared by all loaders.
//
// Access to the game world is spatially local: the handful of blocks and
// tiles around the viewport are requested over and over while everything
// else goes cold. A precise LRU buys little under that pattern, so the
// cache evicts in coarse batches instead: once full, the older half of the
// entries (by insertion generation) is dropped before the new entry goes
// in. Evicted values that own resources are released through a hook.
package cache

import "sync"

// Bounded maps decoded indices to decoded values, holding at most capacity
// entries.
type Bounded[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]V
	order    []K
	onEvict  func(V)
}

// New returns a cache holding up to capacity entries. onEvict, if not nil,
// runs for every evicted value, including on Clear.
func New[K comparable, V any](capacity int, onEvict func(V)) *Bounded[K, V] {
	if capacity < 2 {
		capacity = 2
	}
	return &Bounded[K, V]{
		capacity: capacity,
		entries:  make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
		onEvict:  onEvict,
	}
}

// Get returns the cached value for k.
func (c *Bounded[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[k]
	return v, ok
}

// Add inserts v under k, evicting the oldest half of the cache first if it
// is full. Re-adding an existing key replaces the value without counting
// as growth.
func (c *Bounded[K, V]) Add(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[k]; ok {
		if c.onEvict != nil {
			c.onEvict(old)
		}
		c.entries[k] = v
		return
	}

	if len(c.order) >= c.capacity {
		c.evictOldest(len(c.order) / 2)
	}

	c.entries[k] = v
	c.order = append(c.order, k)
}

// Len returns the number of cached entries.
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.order)
}

// Clear evicts everything, releasing owned resources. Used when an archive
// is reloaded so that no entry referencing the old handle survives.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictOldest(len(c.order))
}

// evictOldest drops the n oldest entries. Caller holds the lock.
func (c *Bounded[K, V]) evictOldest(n int) {
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, k := range c.order[:n] {
		if v, ok := c.entries[k]; ok {
			if c.onEvict != nil {
				c.onEvict(v)
			}
			delete(c.entries, k)
		}
	}
	c.order = append(c.order[:0], c.order[n:]...)
}
