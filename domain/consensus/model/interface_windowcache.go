package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// WindowCache is an in-memory LRU cache keyed by block hash, used by the
// difficulty and past-median-time window calculations. It carries no
// database-backed state, so pruning only ever needs to invalidate it, never
// commit to it.
type WindowCache interface {
	Get(blockHash *externalapi.DomainHash) (interface{}, bool)
	Add(blockHash *externalapi.DomainHash, value interface{})
	Invalidate(blockHash *externalapi.DomainHash)
}

// WindowCacheInvalidator is the narrow seam the pruning processor uses to
// evict window-cache entries for blocks it deletes, without depending on
// the full difficulty/past-median-time manager that owns the caches
// themselves. A single invalidator fans out to every registered WindowCache.
type WindowCacheInvalidator interface {
	Invalidate(blockHash *externalapi.DomainHash)
}
