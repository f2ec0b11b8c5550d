// Package multisetstore stores the per-block MuHash UTXO commitment
// multiset kept alongside the rest of a block's consensus data.
package multisetstore

import (
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/daglabs/prunepoint/domain/consensus/utils/muhash"
)

var bucket = database.MakeBucket([]byte("multisets"))

// multisetStore represents a store of Multisets
type multisetStore struct {
	staging  map[externalapi.DomainHash]model.Multiset
	toDelete map[externalapi.DomainHash]struct{}
	cache    *lrucache.LRUCache
}

// New instantiates a new MultisetStore
func New(cacheSize int) model.MultisetStore {
	return &multisetStore{
		staging:  make(map[externalapi.DomainHash]model.Multiset),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

// Stage stages the given multiset for the given blockHash
func (ms *multisetStore) Stage(blockHash *externalapi.DomainHash, multiset model.Multiset) {
	ms.staging[*blockHash] = multiset.Clone()
}

func (ms *multisetStore) IsStaged() bool {
	return len(ms.staging) != 0 || len(ms.toDelete) != 0
}

func (ms *multisetStore) Discard() {
	ms.staging = make(map[externalapi.DomainHash]model.Multiset)
	ms.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (ms *multisetStore) Commit(dbTx model.DBTransaction) error {
	for hash, multiset := range ms.staging {
		multisetBytes, err := ms.serializeMultiset(multiset)
		if err != nil {
			return err
		}
		err = dbTx.Put(ms.hashAsKey(&hash), multisetBytes)
		if err != nil {
			return err
		}
		ms.cache.Add(&hash, multiset)
	}

	for hash := range ms.toDelete {
		err := dbTx.Delete(ms.hashAsKey(&hash))
		if err != nil {
			return err
		}
		ms.cache.Remove(&hash)
	}

	ms.Discard()
	return nil
}

// Get gets the multiset associated with the given blockHash
func (ms *multisetStore) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (model.Multiset, error) {
	if multiset, ok := ms.staging[*blockHash]; ok {
		return multiset.Clone(), nil
	}

	if multiset, ok := ms.cache.Get(blockHash); ok {
		return multiset.(model.Multiset).Clone(), nil
	}

	multisetBytes, err := dbContext.Get(ms.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	multiset, err := ms.deserializeMultiset(multisetBytes)
	if err != nil {
		return nil, err
	}
	ms.cache.Add(blockHash, multiset)
	return multiset.Clone(), nil
}

// Delete deletes the multiset associated with the given blockHash
func (ms *multisetStore) Delete(blockHash *externalapi.DomainHash) {
	if _, ok := ms.staging[*blockHash]; ok {
		delete(ms.staging, *blockHash)
		return
	}
	ms.toDelete[*blockHash] = struct{}{}
}

func (ms *multisetStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

// serializeMultiset encodes multiset's raw accumulator state. MuHash is the
// only Multiset implementation this module carries, so the store is free to
// depend on its concrete serialization rather than round-tripping through
// Add/Remove calls with the original elements, which are not retained.
func (ms *multisetStore) serializeMultiset(multiset model.Multiset) ([]byte, error) {
	return multiset.(*muhash.MuHash).Serialize(), nil
}

func (ms *multisetStore) deserializeMultiset(multisetBytes []byte) (model.Multiset, error) {
	return muhash.Deserialize(multisetBytes), nil
}
