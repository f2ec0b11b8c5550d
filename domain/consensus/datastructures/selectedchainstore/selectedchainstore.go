// Package selectedchainstore maintains a bijection between chain heights
// and block hashes along the virtual selected chain, kept consistent as the
// pruning processor trims the chain's tail.
package selectedchainstore

import (
	"encoding/binary"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var byIndexBucket = database.MakeBucket([]byte("selected-chain-by-index"))
var byHashBucket = database.MakeBucket([]byte("selected-chain-by-hash"))
var highestIndexKey = database.MakeBucket([]byte("selected-chain-highest-index")).Key(nil)

type selectedChainStore struct {
	addStaging        map[uint64]externalapi.DomainHash
	removeBelowStaged bool
	removeBelowIndex  uint64
}

// New instantiates a new SelectedChainStore.
func New() model.SelectedChainStore {
	return &selectedChainStore{
		addStaging: make(map[uint64]externalapi.DomainHash),
	}
}

func (scs *selectedChainStore) StageAddChainBlock(blockHash *externalapi.DomainHash, chainBlockIndex uint64) {
	scs.addStaging[chainBlockIndex] = *blockHash
}

func (scs *selectedChainStore) StageRemoveChainBlockIndexBelow(chainBlockIndex uint64) {
	for index := range scs.addStaging {
		if index < chainBlockIndex {
			delete(scs.addStaging, index)
		}
	}
	scs.removeBelowStaged = true
	scs.removeBelowIndex = chainBlockIndex
}

func (scs *selectedChainStore) IsStaged() bool {
	return len(scs.addStaging) != 0 || scs.removeBelowStaged
}

func (scs *selectedChainStore) Discard() {
	scs.addStaging = make(map[uint64]externalapi.DomainHash)
	scs.removeBelowStaged = false
	scs.removeBelowIndex = 0
}

func (scs *selectedChainStore) Commit(dbTx model.DBTransaction) error {
	if scs.removeBelowStaged {
		cursor, err := dbTx.Cursor(byIndexBucket)
		if err != nil {
			return err
		}
		var staleHashes []externalapi.DomainHash
		var staleIndexKeys []*model.DBKey
		for cursor.Next() {
			key, err := cursor.Key()
			if err != nil {
				cursor.Close()
				return err
			}
			index := binary.BigEndian.Uint64(key.Suffix())
			if index >= scs.removeBelowIndex {
				continue
			}
			value, err := cursor.Value()
			if err != nil {
				cursor.Close()
				return err
			}
			var hash externalapi.DomainHash
			copy(hash[:], value)
			staleHashes = append(staleHashes, hash)
			staleIndexKeys = append(staleIndexKeys, indexAsKey(index))
		}
		if err := cursor.Error(); err != nil {
			cursor.Close()
			return err
		}
		cursor.Close()

		for i, hash := range staleHashes {
			if err := dbTx.Delete(staleIndexKeys[i]); err != nil {
				return err
			}
			if err := dbTx.Delete(hashAsKey(&hash)); err != nil {
				return err
			}
		}
	}

	var highest uint64
	haveHighest := false
	for index, hash := range scs.addStaging {
		hash := hash
		if err := dbTx.Put(indexAsKey(index), hash[:]); err != nil {
			return err
		}
		if err := dbTx.Put(hashAsKey(&hash), indexToBytes(index)); err != nil {
			return err
		}
		if !haveHighest || index > highest {
			highest = index
			haveHighest = true
		}
	}
	if haveHighest {
		if err := dbTx.Put(highestIndexKey, indexToBytes(highest)); err != nil {
			return err
		}
	}

	scs.Discard()
	return nil
}

// GetHashByIndex returns the hash of the chain block at chainBlockIndex.
func (scs *selectedChainStore) GetHashByIndex(dbContext model.DBReader, chainBlockIndex uint64) (*externalapi.DomainHash, error) {
	if hash, ok := scs.addStaging[chainBlockIndex]; ok {
		return hash.Clone(), nil
	}

	hashBytes, err := dbContext.Get(indexAsKey(chainBlockIndex))
	if err != nil {
		return nil, err
	}
	var hash externalapi.DomainHash
	copy(hash[:], hashBytes)
	return &hash, nil
}

// GetIndexByHash returns the chain height recorded for blockHash.
func (scs *selectedChainStore) GetIndexByHash(dbContext model.DBReader, blockHash *externalapi.DomainHash) (uint64, error) {
	for index, hash := range scs.addStaging {
		if hash == *blockHash {
			return index, nil
		}
	}

	indexBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return 0, err
	}
	if len(indexBytes) != 8 {
		return 0, errors.New("corrupt selected chain index entry")
	}
	return binary.BigEndian.Uint64(indexBytes), nil
}

// HighestIndex returns the greatest chain height currently recorded.
func (scs *selectedChainStore) HighestIndex(dbContext model.DBReader) (uint64, error) {
	highest := uint64(0)
	haveHighest := false
	for index := range scs.addStaging {
		if !haveHighest || index > highest {
			highest = index
			haveHighest = true
		}
	}
	if haveHighest {
		return highest, nil
	}

	highestBytes, err := dbContext.Get(highestIndexKey)
	if err != nil {
		return 0, err
	}
	if len(highestBytes) != 8 {
		return 0, errors.New("corrupt selected chain highest index entry")
	}
	return binary.BigEndian.Uint64(highestBytes), nil
}

func indexAsKey(index uint64) *model.DBKey {
	return byIndexBucket.Key(indexToBytes(index))
}

func hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return byHashBucket.Key(hash[:])
}

func indexToBytes(index uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, index)
	return buf
}
