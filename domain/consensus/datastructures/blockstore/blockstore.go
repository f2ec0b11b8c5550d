// Package blockstore stores full block bodies, present only for blocks in
// keep_blocks.
package blockstore

import (
	"bytes"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("blocks"))

type blockStore struct {
	staging  map[externalapi.DomainHash]*externalapi.DomainBlock
	toDelete map[externalapi.DomainHash]struct{}
	cache    *lrucache.LRUCache
}

// New instantiates a new BlockStore.
func New(cacheSize int) model.BlockStore {
	return &blockStore{
		staging:  make(map[externalapi.DomainHash]*externalapi.DomainBlock),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}
}

func (bs *blockStore) Stage(blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) {
	delete(bs.toDelete, *blockHash)
	bs.staging[*blockHash] = block.Clone()
}

func (bs *blockStore) Delete(blockHash *externalapi.DomainHash) {
	delete(bs.staging, *blockHash)
	bs.toDelete[*blockHash] = struct{}{}
}

func (bs *blockStore) IsStaged() bool {
	return len(bs.staging) != 0 || len(bs.toDelete) != 0
}

func (bs *blockStore) Discard() {
	bs.staging = make(map[externalapi.DomainHash]*externalapi.DomainBlock)
	bs.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (bs *blockStore) Commit(dbTx model.DBTransaction) error {
	for hash, block := range bs.staging {
		hash := hash
		blockBytes, err := serialize(block)
		if err != nil {
			return err
		}
		if err := dbTx.Put(bs.hashAsKey(&hash), blockBytes); err != nil {
			return err
		}
		bs.cache.Add(&hash, block)
	}

	for hash := range bs.toDelete {
		hash := hash
		if err := dbTx.Delete(bs.hashAsKey(&hash)); err != nil {
			return err
		}
		bs.cache.Remove(&hash)
	}

	bs.Discard()
	return nil
}

// Block returns the full block body for blockHash.
func (bs *blockStore) Block(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	if block, ok := bs.staging[*blockHash]; ok {
		return block.Clone(), nil
	}
	if _, ok := bs.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "block for %s", blockHash)
	}

	if block, ok := bs.cache.Get(blockHash); ok {
		return block.(*externalapi.DomainBlock).Clone(), nil
	}

	blockBytes, err := dbContext.Get(bs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}
	block, err := deserialize(blockBytes)
	if err != nil {
		return nil, err
	}
	bs.cache.Add(blockHash, block)
	return block.Clone(), nil
}

// HasBlock returns whether a block body for blockHash exists in the store.
func (bs *blockStore) HasBlock(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bs.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := bs.toDelete[*blockHash]; ok {
		return false, nil
	}
	if bs.cache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(bs.hashAsKey(blockHash))
}

func (bs *blockStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

func serialize(block *externalapi.DomainBlock) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(block); err != nil {
		return nil, errors.Wrap(err, "failed encoding block")
	}
	return buf.Bytes(), nil
}

func deserialize(data []byte) (*externalapi.DomainBlock, error) {
	var block externalapi.DomainBlock
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&block); err != nil {
		return nil, errors.Wrap(err, "failed decoding block")
	}
	return &block, nil
}
