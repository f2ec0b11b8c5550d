package ldb

import (
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/pkg/errors"
)

// transaction is a database.DBTransaction backed by a goleveldb native
// transaction: every Put/Delete issued against it is invisible to the rest
// of the database until Commit succeeds.
type transaction struct {
	ldbTx  *leveldb.Transaction
	closed bool
}

func newTransaction(ldb *leveldb.DB) (*transaction, error) {
	ldbTx, err := ldb.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "failed opening leveldb transaction")
	}
	return &transaction{ldbTx: ldbTx}, nil
}

func (tx *transaction) Get(key *database.DBKey) ([]byte, error) {
	data, err := tx.ldbTx.Get(key.Bytes(), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(database.ErrNotFound, "key %s", key)
		}
		return nil, err
	}
	return data, nil
}

func (tx *transaction) Has(key *database.DBKey) (bool, error) {
	return tx.ldbTx.Has(key.Bytes(), nil)
}

func (tx *transaction) Put(key *database.DBKey, value []byte) error {
	return tx.ldbTx.Put(key.Bytes(), value, nil)
}

func (tx *transaction) Delete(key *database.DBKey) error {
	return tx.ldbTx.Delete(key.Bytes(), nil)
}

func (tx *transaction) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	return newTransactionCursor(tx.ldbTx, bucket), nil
}

func (tx *transaction) Commit() error {
	if tx.closed {
		return errors.New("cannot commit a closed transaction")
	}
	tx.closed = true
	return tx.ldbTx.Commit()
}

func (tx *transaction) Rollback() error {
	if tx.closed {
		return errors.New("cannot roll back a closed transaction")
	}
	tx.closed = true
	tx.ldbTx.Discard()
	return nil
}

// RollbackUnlessClosed rolls the transaction back unless it was already
// committed or rolled back, letting callers defer a safety-net rollback
// right after opening a transaction without double-closing it.
func (tx *transaction) RollbackUnlessClosed() error {
	if tx.closed {
		return nil
	}
	return tx.Rollback()
}
