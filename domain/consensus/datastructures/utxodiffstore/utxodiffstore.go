// Package utxodiffstore stores, per block, a UTXO diff against that block's
// UTXO diff child, plus the diff-child pointer itself, so a block's UTXO set
// can be materialized lazily by walking diffs down from the nearest
// ancestor that already has one.
package utxodiffstore

import (
	"bytes"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var utxoDiffBucket = database.MakeBucket([]byte("utxo-diffs"))
var utxoDiffChildBucket = database.MakeBucket([]byte("utxo-diff-children"))

type utxoDiffChildStagingEntry struct {
	utxoDiffChild *externalapi.DomainHash
	isStaged      bool
}

type utxoDiffStore struct {
	diffStaging      map[externalapi.DomainHash]*externalapi.UTXODiff
	diffChildStaging map[externalapi.DomainHash]utxoDiffChildStagingEntry
	toDelete         map[externalapi.DomainHash]struct{}
	diffCache        *lrucache.LRUCache
	diffChildCache   *lrucache.LRUCache
}

// New instantiates a new UTXODiffStore.
func New(cacheSize int) model.UTXODiffStore {
	return &utxoDiffStore{
		diffStaging:      make(map[externalapi.DomainHash]*externalapi.UTXODiff),
		diffChildStaging: make(map[externalapi.DomainHash]utxoDiffChildStagingEntry),
		toDelete:         make(map[externalapi.DomainHash]struct{}),
		diffCache:        lrucache.New(cacheSize),
		diffChildCache:   lrucache.New(cacheSize),
	}
}

func (uds *utxoDiffStore) Stage(blockHash *externalapi.DomainHash, utxoDiff *externalapi.UTXODiff, utxoDiffChild *externalapi.DomainHash) {
	delete(uds.toDelete, *blockHash)
	uds.diffStaging[*blockHash] = utxoDiff.Clone()
	if utxoDiffChild != nil {
		uds.diffChildStaging[*blockHash] = utxoDiffChildStagingEntry{utxoDiffChild: utxoDiffChild.Clone(), isStaged: true}
	}
}

func (uds *utxoDiffStore) Delete(blockHash *externalapi.DomainHash) {
	delete(uds.diffStaging, *blockHash)
	delete(uds.diffChildStaging, *blockHash)
	uds.toDelete[*blockHash] = struct{}{}
}

func (uds *utxoDiffStore) IsStaged() bool {
	return len(uds.diffStaging) != 0 || len(uds.diffChildStaging) != 0 || len(uds.toDelete) != 0
}

func (uds *utxoDiffStore) Discard() {
	uds.diffStaging = make(map[externalapi.DomainHash]*externalapi.UTXODiff)
	uds.diffChildStaging = make(map[externalapi.DomainHash]utxoDiffChildStagingEntry)
	uds.toDelete = make(map[externalapi.DomainHash]struct{})
}

func (uds *utxoDiffStore) Commit(dbTx model.DBTransaction) error {
	for hash, diff := range uds.diffStaging {
		hash := hash
		diffBytes, err := serializeDiff(diff)
		if err != nil {
			return err
		}
		if err := dbTx.Put(diffKey(&hash), diffBytes); err != nil {
			return err
		}
		uds.diffCache.Add(&hash, diff)
	}

	for hash, entry := range uds.diffChildStaging {
		hash := hash
		if err := dbTx.Put(diffChildKey(&hash), entry.utxoDiffChild[:]); err != nil {
			return err
		}
		uds.diffChildCache.Add(&hash, entry.utxoDiffChild)
	}

	for hash := range uds.toDelete {
		hash := hash
		if err := dbTx.Delete(diffKey(&hash)); err != nil {
			return err
		}
		if err := dbTx.Delete(diffChildKey(&hash)); err != nil {
			return err
		}
		uds.diffCache.Remove(&hash)
		uds.diffChildCache.Remove(&hash)
	}

	uds.Discard()
	return nil
}

// UTXODiff returns the UTXO diff staged or stored for blockHash.
func (uds *utxoDiffStore) UTXODiff(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.UTXODiff, error) {
	if diff, ok := uds.diffStaging[*blockHash]; ok {
		return diff.Clone(), nil
	}
	if _, ok := uds.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "utxo diff for %s", blockHash)
	}
	if diff, ok := uds.diffCache.Get(blockHash); ok {
		return diff.(*externalapi.UTXODiff).Clone(), nil
	}

	diffBytes, err := dbContext.Get(diffKey(blockHash))
	if err != nil {
		return nil, err
	}
	diff, err := deserializeDiff(diffBytes)
	if err != nil {
		return nil, err
	}
	uds.diffCache.Add(blockHash, diff)
	return diff.Clone(), nil
}

// UTXODiffChild returns the block whose UTXO set blockHash's diff is
// expressed against.
func (uds *utxoDiffStore) UTXODiffChild(dbContext model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {
	if entry, ok := uds.diffChildStaging[*blockHash]; ok {
		return entry.utxoDiffChild.Clone(), nil
	}
	if _, ok := uds.toDelete[*blockHash]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "utxo diff child for %s", blockHash)
	}
	if child, ok := uds.diffChildCache.Get(blockHash); ok {
		return child.(*externalapi.DomainHash).Clone(), nil
	}

	childBytes, err := dbContext.Get(diffChildKey(blockHash))
	if err != nil {
		return nil, err
	}
	if len(childBytes) != externalapi.DomainHashSize {
		return nil, errors.New("corrupt utxo diff child entry")
	}
	var child externalapi.DomainHash
	copy(child[:], childBytes)
	uds.diffChildCache.Add(blockHash, &child)
	return child.Clone(), nil
}

// HasUTXODiffChild returns whether blockHash has a diff child recorded.
func (uds *utxoDiffStore) HasUTXODiffChild(dbContext model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	if entry, ok := uds.diffChildStaging[*blockHash]; ok {
		return entry.isStaged, nil
	}
	if _, ok := uds.toDelete[*blockHash]; ok {
		return false, nil
	}
	if uds.diffChildCache.Has(blockHash) {
		return true, nil
	}
	return dbContext.Has(diffChildKey(blockHash))
}

func diffKey(hash *externalapi.DomainHash) *model.DBKey {
	return utxoDiffBucket.Key(hash[:])
}

func diffChildKey(hash *externalapi.DomainHash) *model.DBKey {
	return utxoDiffChildBucket.Key(hash[:])
}

func serializeDiff(diff *externalapi.UTXODiff) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(diff); err != nil {
		return nil, errors.Wrap(err, "failed encoding UTXO diff")
	}
	return buf.Bytes(), nil
}

func deserializeDiff(data []byte) (*externalapi.UTXODiff, error) {
	var diff externalapi.UTXODiff
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&diff); err != nil {
		return nil, errors.Wrap(err, "failed decoding UTXO diff")
	}
	return &diff, nil
}
