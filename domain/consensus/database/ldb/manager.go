package ldb

import (
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/pkg/errors"
)

// manager is a database.DBManager backed by a goleveldb instance on disk.
type manager struct {
	ldb *leveldb.DB
}

// New opens (creating if necessary) a goleveldb database at the given path.
func New(path string) (database.DBManager, error) {
	ldb, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening database at %s", path)
	}
	return &manager{ldb: ldb}, nil
}

func (m *manager) Get(key *database.DBKey) ([]byte, error) {
	data, err := m.ldb.Get(key.Bytes(), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(database.ErrNotFound, "key %s", key)
		}
		return nil, err
	}
	return data, nil
}

func (m *manager) Has(key *database.DBKey) (bool, error) {
	return m.ldb.Has(key.Bytes(), nil)
}

func (m *manager) Put(key *database.DBKey, value []byte) error {
	return m.ldb.Put(key.Bytes(), value, nil)
}

func (m *manager) Delete(key *database.DBKey) error {
	return m.ldb.Delete(key.Bytes(), nil)
}

func (m *manager) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	return newCursor(m.ldb, bucket), nil
}

func (m *manager) Begin() (database.DBTransaction, error) {
	return newTransaction(m.ldb)
}

func (m *manager) Close() error {
	return m.ldb.Close()
}
