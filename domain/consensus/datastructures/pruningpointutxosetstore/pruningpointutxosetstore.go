// Package pruningpointutxosetstore holds the full UTXO snapshot as of the
// current pruning point, keyed by outpoint so it can be rolled forward diff
// by diff and iterated for the sanity-mode MuHash commitment check.
package pruningpointutxosetstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("pruning-point-utxo-set"))

type pruningPointUTXOSetStore struct {
	staging  map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
	toDelete map[externalapi.DomainOutpoint]struct{}
}

// New instantiates a new PruningPointUTXOSetStore.
func New() model.PruningPointUTXOSetStore {
	return &pruningPointUTXOSetStore{
		staging:  make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry),
		toDelete: make(map[externalapi.DomainOutpoint]struct{}),
	}
}

func (s *pruningPointUTXOSetStore) Stage(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	delete(s.toDelete, *outpoint)
	s.staging[*outpoint] = entry.Clone()
}

func (s *pruningPointUTXOSetStore) StageDelete(outpoint *externalapi.DomainOutpoint) {
	delete(s.staging, *outpoint)
	s.toDelete[*outpoint] = struct{}{}
}

func (s *pruningPointUTXOSetStore) IsStaged() bool {
	return len(s.staging) != 0 || len(s.toDelete) != 0
}

func (s *pruningPointUTXOSetStore) Discard() {
	s.staging = make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry)
	s.toDelete = make(map[externalapi.DomainOutpoint]struct{})
}

func (s *pruningPointUTXOSetStore) Commit(dbTx model.DBTransaction) error {
	for outpoint, entry := range s.staging {
		entryBytes, err := serializeEntry(entry)
		if err != nil {
			return err
		}
		err = dbTx.Put(outpointAsKey(&outpoint), entryBytes)
		if err != nil {
			return err
		}
	}

	for outpoint := range s.toDelete {
		err := dbTx.Delete(outpointAsKey(&outpoint))
		if err != nil {
			return err
		}
	}

	s.Discard()
	return nil
}

// Get returns the UTXO entry for outpoint.
func (s *pruningPointUTXOSetStore) Get(dbContext model.DBReader, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	if entry, ok := s.staging[*outpoint]; ok {
		return entry.Clone(), nil
	}
	if _, ok := s.toDelete[*outpoint]; ok {
		return nil, errors.Wrapf(database.ErrNotFound, "utxo entry for %s", outpoint)
	}

	entryBytes, err := dbContext.Get(outpointAsKey(outpoint))
	if err != nil {
		return nil, err
	}
	return deserializeEntry(entryBytes)
}

// Iterator returns an iterator over the committed UTXO set. It does not
// reflect uncommitted staged writes; cursors only ever read the live store.
func (s *pruningPointUTXOSetStore) Iterator(dbContext model.DBReader) (model.UTXOSetIterator, error) {
	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	return &utxoSetIterator{cursor: cursor}, nil
}

type utxoSetIterator struct {
	cursor model.Cursor
}

func (it *utxoSetIterator) Next() bool {
	return it.cursor.Next()
}

func (it *utxoSetIterator) Get() (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error) {
	key, err := it.cursor.Key()
	if err != nil {
		return nil, nil, err
	}
	outpoint, err := outpointFromKeyBytes(key.Suffix())
	if err != nil {
		return nil, nil, err
	}

	valueBytes, err := it.cursor.Value()
	if err != nil {
		return nil, nil, err
	}
	entry, err := deserializeEntry(valueBytes)
	if err != nil {
		return nil, nil, err
	}

	return outpoint, entry, nil
}

func (it *utxoSetIterator) Close() error {
	return it.cursor.Close()
}

func outpointAsKey(outpoint *externalapi.DomainOutpoint) *model.DBKey {
	return bucket.Key(outpointToKeyBytes(outpoint))
}

func outpointToKeyBytes(outpoint *externalapi.DomainOutpoint) []byte {
	keyBytes := make([]byte, externalapi.DomainHashSize+4)
	copy(keyBytes, outpoint.TransactionID[:])
	binary.BigEndian.PutUint32(keyBytes[externalapi.DomainHashSize:], outpoint.Index)
	return keyBytes
}

func outpointFromKeyBytes(keyBytes []byte) (*externalapi.DomainOutpoint, error) {
	if len(keyBytes) != externalapi.DomainHashSize+4 {
		return nil, errors.New("corrupt pruning point UTXO set key")
	}
	var txID externalapi.DomainHash
	copy(txID[:], keyBytes[:externalapi.DomainHashSize])
	index := binary.BigEndian.Uint32(keyBytes[externalapi.DomainHashSize:])
	return externalapi.NewDomainOutpoint(&txID, index), nil
}

func serializeEntry(entry *externalapi.UTXOEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return nil, errors.Wrap(err, "failed encoding UTXO entry")
	}
	return buf.Bytes(), nil
}

func deserializeEntry(data []byte) (*externalapi.UTXOEntry, error) {
	var entry externalapi.UTXOEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, errors.Wrap(err, "failed decoding UTXO entry")
	}
	return &entry, nil
}
