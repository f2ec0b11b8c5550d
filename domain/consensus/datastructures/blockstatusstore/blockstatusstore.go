// Package blockstatusstore stores each block's validation status. A fully
// pruned block has no entry here at all.
package blockstatusstore

import (
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("block-statuses"))

type blockStatusStore struct {
	staging  map[externalapi.DomainHash]externalapi.BlockStatus
	toDelete map[externalapi.DomainHash]struct{}
	cache    *lrucache.LRUCache
}

// New instantiates a new BlockStatusStore.
func New(cacheSize int) model.BlockStatusStore {
	return &blockStatusStore{
		staging:  make(map[externalapi.DomainHash]externalapi.BlockStatus),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

func (bss *blockStatusStore) Stage(blockHash *externalapi.DomainHash, status externalapi.BlockStatus) {
	delete(bss.toDelete, *blockHash)
	bss.staging[*blockHash] = status
}

func (bss *blockStatusStore) Delete(blockHash *externalapi.DomainHash) {
	delete(bss.staging, *blockHash)
	bss.toDelete[*blockHash] = struct{}{}
}

func (bss *blockStatusStore) IsStaged() bool {
	return len(bss.staging) != 0 || len(bss.toDelete) != 0
}

func (bss *blockStatusStore) Discard() {
	bss.staging = make(map[externalapi.DomainHash]externalapi.BlockStatus)
	bss.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (bss *blockStatusStore) Commit(dbTx model.DBTransaction) error {
	for hash, status := range bss.staging {
		hash := hash
		if err := dbTx.Put(bss.hashAsKey(&hash), []byte{byte(status)}); err != nil {
			return err
		}
		bss.cache.Add(&hash, status)
	}

	for hash := range bss.toDelete {
		hash := hash
		if err := dbTx.Delete(bss.hashAsKey(&hash)); err != nil {
			return err
		}
		bss.cache.Remove(&hash)
	}

	bss.Discard()
	return nil
}

// Get returns the status recorded for blockHash.
func (bss *blockStatusStore) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	if status, ok := bss.staging[*blockHash]; ok {
		return status, nil
	}
	if _, ok := bss.toDelete[*blockHash]; ok {
		return 0, errors.Wrapf(database.ErrNotFound, "status for %s", blockHash)
	}
	if status, ok := bss.cache.Get(blockHash); ok {
		return status.(externalapi.BlockStatus), nil
	}

	statusBytes, err := dbContext.Get(bss.hashAsKey(blockHash))
	if err != nil {
		return 0, err
	}
	if len(statusBytes) != 1 {
		return 0, errors.New("corrupt block status entry")
	}
	status := externalapi.BlockStatus(statusBytes[0])
	bss.cache.Add(blockHash, status)
	return status, nil
}

// Exists returns whether blockHash has a status recorded.
func (bss *blockStatusStore) Exists(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bss.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := bss.toDelete[*blockHash]; ok {
		return false, nil
	}
	if bss.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(bss.hashAsKey(blockHash))
}

func (bss *blockStatusStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}
