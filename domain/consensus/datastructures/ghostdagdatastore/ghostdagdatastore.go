// Package ghostdagdatastore stores per-block GHOSTDAG data at a single DAG
// level. The storage facade holds one instance per level.
package ghostdagdatastore

import (
	"bytes"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("block-ghostdag-data"))

type ghostdagDataStore struct {
	staging map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData
	toDelete map[externalapi.DomainHash]struct{}
	cache   *lrucache.LRUCache
}

// New instantiates a new GHOSTDAGDataStore.
func New(cacheSize int) model.GHOSTDAGDataStore {
	return &ghostdagDataStore{
		staging:  make(map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

func (gds *ghostdagDataStore) Stage(blockHash *externalapi.DomainHash, blockGHOSTDAGData *externalapi.BlockGHOSTDAGData) {
	gds.staging[*blockHash] = blockGHOSTDAGData.Clone()
}

// Delete marks blockHash's GHOSTDAG data for removal on the next Commit.
func (gds *ghostdagDataStore) Delete(blockHash *externalapi.DomainHash) {
	delete(gds.staging, *blockHash)
	gds.toDelete[*blockHash] = struct{}{}
}

func (gds *ghostdagDataStore) IsStaged() bool {
	return len(gds.staging) != 0 || len(gds.toDelete) != 0
}

func (gds *ghostdagDataStore) Discard() {
	gds.staging = make(map[externalapi.DomainHash]*externalapi.BlockGHOSTDAGData)
	gds.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (gds *ghostdagDataStore) Commit(dbTx model.DBTransaction) error {
	for hash, blockGHOSTDAGData := range gds.staging {
		hash := hash
		encoded, err := serialize(blockGHOSTDAGData)
		if err != nil {
			return err
		}
		err = dbTx.Put(gds.hashAsKey(&hash), encoded)
		if err != nil {
			return err
		}
		gds.cache.Add(&hash, blockGHOSTDAGData)
	}

	for hash := range gds.toDelete {
		hash := hash
		err := dbTx.Delete(gds.hashAsKey(&hash))
		if err != nil {
			return err
		}
		gds.cache.Remove(&hash)
	}

	gds.Discard()
	return nil
}

// Get returns the GHOSTDAG data for blockHash at this level.
func (gds *ghostdagDataStore) Get(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	if blockGHOSTDAGData, ok := gds.staging[*blockHash]; ok {
		return blockGHOSTDAGData.Clone(), nil
	}
	if _, ok := gds.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "ghostdag data for %s", blockHash)
	}

	if blockGHOSTDAGData, ok := gds.cache.Get(blockHash); ok {
		return blockGHOSTDAGData.(*externalapi.BlockGHOSTDAGData).Clone(), nil
	}

	blockGHOSTDAGDataBytes, err := dbContext.Get(gds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	blockGHOSTDAGData, err := deserialize(blockGHOSTDAGDataBytes)
	if err != nil {
		return nil, err
	}
	gds.cache.Add(blockHash, blockGHOSTDAGData)
	return blockGHOSTDAGData.Clone(), nil
}

func (gds *ghostdagDataStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

func serialize(data *externalapi.BlockGHOSTDAGData) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, errors.Wrap(err, "failed encoding GHOSTDAG data")
	}
	return buf.Bytes(), nil
}

func deserialize(data []byte) (*externalapi.BlockGHOSTDAGData, error) {
	var blockGHOSTDAGData externalapi.BlockGHOSTDAGData
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blockGHOSTDAGData); err != nil {
		return nil, errors.Wrap(err, "failed decoding GHOSTDAG data")
	}
	return &blockGHOSTDAGData, nil
}
