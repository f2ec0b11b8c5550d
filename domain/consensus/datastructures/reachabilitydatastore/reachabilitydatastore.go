// Package reachabilitydatastore stores each block's reachability tree
// position (interval, tree parent/children, future covering set) plus the
// single reindex-root pointer the tree maintains globally.
package reachabilitydatastore

import (
	"bytes"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("reachability-data"))
var reindexRootKey = database.MakeBucket([]byte("reachability-reindex-root")).Key(nil)

type reachabilityDataStore struct {
	staging           map[externalapi.DomainHash]*model.ReachabilityData
	toDelete          map[externalapi.DomainHash]struct{}
	reindexRootStaged *externalapi.DomainHash
	cache             *lrucache.LRUCache
}

// New instantiates a new ReachabilityDataStore.
func New(cacheSize int) model.ReachabilityDataStore {
	return &reachabilityDataStore{
		staging:  make(map[externalapi.DomainHash]*model.ReachabilityData),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

func (rds *reachabilityDataStore) StageReachabilityData(blockHash *externalapi.DomainHash, reachabilityData *model.ReachabilityData) {
	delete(rds.toDelete, *blockHash)
	rds.staging[*blockHash] = reachabilityData.Clone()
}

func (rds *reachabilityDataStore) StageReindexRoot(root *externalapi.DomainHash) {
	rds.reindexRootStaged = root.Clone()
}

func (rds *reachabilityDataStore) Delete(blockHash *externalapi.DomainHash) {
	delete(rds.staging, *blockHash)
	rds.toDelete[*blockHash] = struct{}{}
}

func (rds *reachabilityDataStore) IsStaged() bool {
	return len(rds.staging) != 0 || len(rds.toDelete) != 0 || rds.reindexRootStaged != nil
}

func (rds *reachabilityDataStore) Discard() {
	rds.staging = make(map[externalapi.DomainHash]*model.ReachabilityData)
	rds.toDelete = make(map[externalapi.DomainHash]struct{})
	rds.reindexRootStaged = nil
}

func (rds *reachabilityDataStore) Commit(dbTx model.DBTransaction) error {
	for hash, data := range rds.staging {
		hash := hash
		dataBytes, err := serialize(data)
		if err != nil {
			return err
		}
		if err := dbTx.Put(rds.hashAsKey(&hash), dataBytes); err != nil {
			return err
		}
		rds.cache.Add(&hash, data)
	}

	for hash := range rds.toDelete {
		hash := hash
		if err := dbTx.Delete(rds.hashAsKey(&hash)); err != nil {
			return err
		}
		rds.cache.Remove(&hash)
	}

	if rds.reindexRootStaged != nil {
		if err := dbTx.Put(reindexRootKey, rds.reindexRootStaged[:]); err != nil {
			return err
		}
	}

	rds.Discard()
	return nil
}

// ReachabilityData returns the reachability tree position recorded for
// blockHash.
func (rds *reachabilityDataStore) ReachabilityData(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*model.ReachabilityData, error) {
	if data, ok := rds.staging[*blockHash]; ok {
		return data.Clone(), nil
	}
	if _, ok := rds.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "reachability data for %s", blockHash)
	}
	if data, ok := rds.cache.Get(blockHash); ok {
		return data.(*model.ReachabilityData).Clone(), nil
	}

	dataBytes, err := dbContext.Get(rds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	data, err := deserialize(dataBytes)
	if err != nil {
		return nil, err
	}
	rds.cache.Add(blockHash, data)
	return data.Clone(), nil
}

// HasReachabilityData returns whether blockHash has reachability data
// recorded.
func (rds *reachabilityDataStore) HasReachabilityData(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := rds.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := rds.toDelete[*blockHash]; ok {
		return false, nil
	}
	if rds.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(rds.hashAsKey(blockHash))
}

// ReindexRoot returns the block currently serving as the reachability tree's
// reindex root.
func (rds *reachabilityDataStore) ReindexRoot(dbContext model.DBReader) (*externalapi.DomainHash, error) {
	if rds.reindexRootStaged != nil {
		return rds.reindexRootStaged.Clone(), nil
	}

	rootBytes, err := dbContext.Get(reindexRootKey)
	if err != nil {
		return nil, err
	}
	if len(rootBytes) != externalapi.DomainHashSize {
		return nil, errors.New("corrupt reachability reindex root entry")
	}
	var root externalapi.DomainHash
	copy(root[:], rootBytes)
	return &root, nil
}

func (rds *reachabilityDataStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

func serialize(data *model.ReachabilityData) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, errors.Wrap(err, "failed encoding reachability data")
	}
	return buf.Bytes(), nil
}

func deserialize(data []byte) (*model.ReachabilityData, error) {
	var rd model.ReachabilityData
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rd); err != nil {
		return nil, errors.Wrap(err, "failed decoding reachability data")
	}
	return &rd, nil
}
