package lrucache

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// LRUCache is a key/value cache, bounded by the number of entries, keyed by
// DomainHash, evicting the earliest-inserted entry once full. Get and
// overwriting Add calls do not change an entry's eviction position.
type LRUCache struct {
	capacity int
	cache    map[externalapi.DomainHash]interface{}
	order    []externalapi.DomainHash
}

// New creates a new LRUCache with the given capacity.
func New(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		cache:    make(map[externalapi.DomainHash]interface{}, capacity),
		order:    make([]externalapi.DomainHash, 0, capacity),
	}
}

// Add inserts or updates the value for the given key, evicting the oldest
// entry if the cache is at capacity.
func (c *LRUCache) Add(key *externalapi.DomainHash, value interface{}) {
	if c.capacity == 0 {
		return
	}

	if _, exists := c.cache[*key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.cache, oldest)
		}
		c.order = append(c.order, *key)
	}
	c.cache[*key] = value
}

// Get returns the value associated with key, and whether it was found.
func (c *LRUCache) Get(key *externalapi.DomainHash) (interface{}, bool) {
	value, ok := c.cache[*key]
	return value, ok
}

// Remove evicts key from the cache, if present.
func (c *LRUCache) Remove(key *externalapi.DomainHash) {
	if _, exists := c.cache[*key]; !exists {
		return
	}
	delete(c.cache, *key)
	for i, hash := range c.order {
		if hash == *key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Has returns whether key is present in the cache.
func (c *LRUCache) Has(key *externalapi.DomainHash) bool {
	_, ok := c.cache[*key]
	return ok
}
