// Package blockrelationstore stores a block's parent/child relations at a
// single DAG level. The storage facade holds one instance per level.
package blockrelationstore

import (
	"bytes"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("block-relations"))

type blockRelationStore struct {
	staging  map[externalapi.DomainHash]*model.BlockRelations
	toDelete map[externalapi.DomainHash]struct{}
	cache    *lrucache.LRUCache
}

// New instantiates a new BlockRelationStore for a single block level.
func New(cacheSize int) model.BlockRelationStore {
	return &blockRelationStore{
		staging:  make(map[externalapi.DomainHash]*model.BlockRelations),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

func (brs *blockRelationStore) Stage(blockHash *externalapi.DomainHash, relations *model.BlockRelations) {
	delete(brs.toDelete, *blockHash)
	brs.staging[*blockHash] = relations.Clone()
}

func (brs *blockRelationStore) Delete(blockHash *externalapi.DomainHash) {
	delete(brs.staging, *blockHash)
	brs.toDelete[*blockHash] = struct{}{}
}

func (brs *blockRelationStore) IsStaged() bool {
	return len(brs.staging) != 0 || len(brs.toDelete) != 0
}

func (brs *blockRelationStore) Discard() {
	brs.staging = make(map[externalapi.DomainHash]*model.BlockRelations)
	brs.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (brs *blockRelationStore) Commit(dbTx model.DBTransaction) error {
	for hash, relations := range brs.staging {
		hash := hash
		relationsBytes, err := serialize(relations)
		if err != nil {
			return err
		}
		if err := dbTx.Put(brs.hashAsKey(&hash), relationsBytes); err != nil {
			return err
		}
		brs.cache.Add(&hash, relations)
	}

	for hash := range brs.toDelete {
		hash := hash
		if err := dbTx.Delete(brs.hashAsKey(&hash)); err != nil {
			return err
		}
		brs.cache.Remove(&hash)
	}

	brs.Discard()
	return nil
}

// BlockRelation returns the relations recorded for blockHash at this level.
func (brs *blockRelationStore) BlockRelation(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*model.BlockRelations, error) {
	if relations, ok := brs.staging[*blockHash]; ok {
		return relations.Clone(), nil
	}
	if _, ok := brs.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "block relations for %s", blockHash)
	}
	if relations, ok := brs.cache.Get(blockHash); ok {
		return relations.(*model.BlockRelations).Clone(), nil
	}

	relationsBytes, err := dbContext.Get(brs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	relations, err := deserialize(relationsBytes)
	if err != nil {
		return nil, err
	}
	brs.cache.Add(blockHash, relations)
	return relations.Clone(), nil
}

// Has returns whether blockHash has relations recorded at this level.
func (brs *blockRelationStore) Has(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := brs.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := brs.toDelete[*blockHash]; ok {
		return false, nil
	}
	if brs.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(brs.hashAsKey(blockHash))
}

func (brs *blockRelationStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

func serialize(relations *model.BlockRelations) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(relations); err != nil {
		return nil, errors.Wrap(err, "failed encoding block relations")
	}
	return buf.Bytes(), nil
}

func deserialize(data []byte) (*model.BlockRelations, error) {
	var relations model.BlockRelations
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&relations); err != nil {
		return nil, errors.Wrap(err, "failed decoding block relations")
	}
	return &relations, nil
}
