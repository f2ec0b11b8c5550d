// Package blockheaderstore stores block headers, kept for every block in
// keep_headers regardless of whether its body or relations survive pruning.
package blockheaderstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("block-headers"))
var countKey = database.MakeBucket().Key([]byte("block-headers-count"))

type blockHeaderStore struct {
	staging  map[externalapi.DomainHash]*externalapi.DomainBlockHeader
	toDelete map[externalapi.DomainHash]struct{}
	cache    *lrucache.LRUCache
	count    uint64
}

// New instantiates a new BlockHeaderStore.
func New(dbContext model.DBReader, cacheSize int) (model.BlockHeaderStore, error) {
	store := &blockHeaderStore{
		staging:  make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
		toDelete: make(map[externalapi.DomainHash]struct{}),
		cache:    lrucache.New(cacheSize),
	}

	err := store.initializeCount(dbContext)
	if err != nil {
		return nil, err
	}

	return store, nil
}

func (bhs *blockHeaderStore) initializeCount(dbContext model.DBReader) error {
	hasCount, err := dbContext.Has(countKey)
	if err != nil {
		return err
	}
	if !hasCount {
		return nil
	}

	countBytes, err := dbContext.Get(countKey)
	if err != nil {
		return err
	}
	bhs.count = binary.LittleEndian.Uint64(countBytes)
	return nil
}

func (bhs *blockHeaderStore) Stage(blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader) {
	delete(bhs.toDelete, *blockHash)
	bhs.staging[*blockHash] = blockHeader.Clone()
}

func (bhs *blockHeaderStore) Delete(blockHash *externalapi.DomainHash) {
	delete(bhs.staging, *blockHash)
	bhs.toDelete[*blockHash] = struct{}{}
}

func (bhs *blockHeaderStore) IsStaged() bool {
	return len(bhs.staging) != 0 || len(bhs.toDelete) != 0
}

func (bhs *blockHeaderStore) Discard() {
	bhs.staging = make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader)
	bhs.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (bhs *blockHeaderStore) Commit(dbTx model.DBTransaction) error {
	for hash, header := range bhs.staging {
		hash := hash
		headerBytes, err := serialize(header)
		if err != nil {
			return err
		}
		err = dbTx.Put(bhs.hashAsKey(&hash), headerBytes)
		if err != nil {
			return err
		}
		bhs.cache.Add(&hash, header)
	}

	for hash := range bhs.toDelete {
		hash := hash
		err := dbTx.Delete(bhs.hashAsKey(&hash))
		if err != nil {
			return err
		}
		bhs.cache.Remove(&hash)
	}

	newCount := bhs.count + uint64(len(bhs.staging)) - uint64(len(bhs.toDelete))
	countBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(countBytes, newCount)
	err := dbTx.Put(countKey, countBytes)
	if err != nil {
		return err
	}
	bhs.count = newCount

	bhs.Discard()
	return nil
}

// BlockHeader returns the header associated with blockHash.
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	if header, ok := bhs.staging[*blockHash]; ok {
		return header.Clone(), nil
	}
	if _, ok := bhs.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "header for %s", blockHash)
	}

	if header, ok := bhs.cache.Get(blockHash); ok {
		return header.(*externalapi.DomainBlockHeader).Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := deserialize(headerBytes)
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a header for blockHash exists in the store.
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bhs.staging[*blockHash]; ok {
		return true, nil
	}
	if _, ok := bhs.toDelete[*blockHash]; ok {
		return false, nil
	}
	if bhs.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bhs.hashAsKey(blockHash))
}

// BlockHeaders returns the headers associated with blockHashes, in order.
func (bhs *blockHeaderStore) BlockHeaders(dbContext model.DBReader, blockHashes []*externalapi.DomainHash) ([]*externalapi.DomainBlockHeader, error) {
	headers := make([]*externalapi.DomainBlockHeader, len(blockHashes))
	for i, hash := range blockHashes {
		var err error
		headers[i], err = bhs.BlockHeader(dbContext, hash)
		if err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// Count returns the number of headers currently held, including staged
// writes not yet committed.
func (bhs *blockHeaderStore) Count() uint64 {
	return bhs.count + uint64(len(bhs.staging)) - uint64(len(bhs.toDelete))
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}

func serialize(header *externalapi.DomainBlockHeader) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(header); err != nil {
		return nil, errors.Wrap(err, "failed encoding block header")
	}
	return buf.Bytes(), nil
}

func deserialize(data []byte) (*externalapi.DomainBlockHeader, error) {
	var header externalapi.DomainBlockHeader
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&header); err != nil {
		return nil, errors.Wrap(err, "failed decoding block header")
	}
	return &header, nil
}
