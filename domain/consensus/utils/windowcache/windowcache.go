// Package windowcache provides the in-memory LRU used by the difficulty and
// past-median-time window calculations. It holds no database-backed state:
// pruning only ever needs to invalidate entries for blocks it removes, never
// commit them.
package windowcache

import (
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
)

type windowCache struct {
	cache *lrucache.LRUCache
}

// New instantiates a new WindowCache with the given capacity.
func New(capacity int) model.WindowCache {
	return &windowCache{cache: lrucache.New(capacity)}
}

func (wc *windowCache) Get(blockHash *externalapi.DomainHash) (interface{}, bool) {
	return wc.cache.Get(blockHash)
}

func (wc *windowCache) Add(blockHash *externalapi.DomainHash, value interface{}) {
	wc.cache.Add(blockHash, value)
}

// Invalidate evicts blockHash's cached window, if any. Called whenever the
// pruning processor mutates a block's ancestry that a cached window result
// depended on.
func (wc *windowCache) Invalidate(blockHash *externalapi.DomainHash) {
	wc.cache.Remove(blockHash)
}

type multiInvalidator struct {
	caches []model.WindowCache
}

// NewMultiInvalidator builds a model.WindowCacheInvalidator that fans out to
// every given cache, so the pruning processor can evict a deleted block from
// the difficulty and past-median-time windows with a single call.
func NewMultiInvalidator(caches ...model.WindowCache) model.WindowCacheInvalidator {
	return &multiInvalidator{caches: caches}
}

func (mi *multiInvalidator) Invalidate(blockHash *externalapi.DomainHash) {
	for _, cache := range mi.caches {
		cache.Invalidate(blockHash)
	}
}
