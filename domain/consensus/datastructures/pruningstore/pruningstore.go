// Package pruningstore holds the pruning-info singleton and the append-only
// log of past pruning points.
package pruningstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var pruningInfoKey = database.MakeBucket().Key([]byte("pruning-info"))
var pastPruningPointsBucket = database.MakeBucket([]byte("past-pruning-points"))

type pruningStore struct {
	infoStaging *externalapi.PruningPointInfo
	pastStaging map[uint64]*externalapi.DomainHash
	infoCache   *externalapi.PruningPointInfo
}

// New instantiates a new PruningStore.
func New() model.PruningStore {
	return &pruningStore{
		pastStaging: make(map[uint64]*externalapi.DomainHash),
	}
}

func (ps *pruningStore) StagePruningPointInfo(info *externalapi.PruningPointInfo) {
	ps.infoStaging = info.Clone()
}

func (ps *pruningStore) StagePastPruningPoint(index uint64, blockHash *externalapi.DomainHash) {
	ps.pastStaging[index] = blockHash.Clone()
}

func (ps *pruningStore) IsStaged() bool {
	return ps.infoStaging != nil || len(ps.pastStaging) != 0
}

func (ps *pruningStore) Discard() {
	ps.infoStaging = nil
	ps.pastStaging = make(map[uint64]*externalapi.DomainHash)
}

func (ps *pruningStore) Commit(dbTx model.DBTransaction) error {
	if ps.infoStaging != nil {
		infoBytes, err := serializeInfo(ps.infoStaging)
		if err != nil {
			return err
		}
		err = dbTx.Put(pruningInfoKey, infoBytes)
		if err != nil {
			return err
		}
		ps.infoCache = ps.infoStaging
	}

	for index, hash := range ps.pastStaging {
		err := dbTx.Put(pastPruningPointKey(index), hash[:])
		if err != nil {
			return err
		}
	}

	ps.Discard()
	return nil
}

// PruningPointInfo returns the current pruning point, candidate and index.
func (ps *pruningStore) PruningPointInfo(dbContext model.DBReader) (*externalapi.PruningPointInfo, error) {
	if ps.infoStaging != nil {
		return ps.infoStaging.Clone(), nil
	}
	if ps.infoCache != nil {
		return ps.infoCache.Clone(), nil
	}

	infoBytes, err := dbContext.Get(pruningInfoKey)
	if err != nil {
		return nil, err
	}

	info, err := deserializeInfo(infoBytes)
	if err != nil {
		return nil, err
	}
	ps.infoCache = info
	return info.Clone(), nil
}

// HasPruningPointInfo returns whether pruning-info has been initialized.
func (ps *pruningStore) HasPruningPointInfo(dbContext model.DBReader) (bool, error) {
	if ps.infoStaging != nil || ps.infoCache != nil {
		return true, nil
	}
	return dbContext.Has(pruningInfoKey)
}

// PastPruningPointByIndex returns the historical pruning point recorded at
// the given index.
func (ps *pruningStore) PastPruningPointByIndex(dbContext model.DBReader, index uint64) (*externalapi.DomainHash, error) {
	if hash, ok := ps.pastStaging[index]; ok {
		return hash.Clone(), nil
	}

	hashBytes, err := dbContext.Get(pastPruningPointKey(index))
	if err != nil {
		return nil, err
	}
	if len(hashBytes) != externalapi.DomainHashSize {
		return nil, errors.Errorf("corrupt past pruning point entry at index %d", index)
	}

	var hash externalapi.DomainHash
	copy(hash[:], hashBytes)
	return &hash, nil
}

func pastPruningPointKey(index uint64) *model.DBKey {
	indexBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(indexBytes, index)
	return pastPruningPointsBucket.Key(indexBytes)
}

func serializeInfo(info *externalapi.PruningPointInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(info); err != nil {
		return nil, errors.Wrap(err, "failed encoding pruning info")
	}
	return buf.Bytes(), nil
}

func deserializeInfo(data []byte) (*externalapi.PruningPointInfo, error) {
	var info externalapi.PruningPointInfo
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "failed decoding pruning info")
	}
	return &info, nil
}
