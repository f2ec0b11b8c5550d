package ldb

import (
	"bytes"

	"github.com/btcsuite/goleveldb/leveldb/iterator"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/daglabs/prunepoint/domain/consensus/database"
)

// iteratorMaker is implemented by both *leveldb.DB and *leveldb.Transaction,
// letting a cursor be opened against either a standalone manager read or a
// transaction's isolated view.
type iteratorMaker interface {
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

type cursor struct {
	bucket *database.Bucket
	iter   iterator.Iterator
}

func newCursor(source iteratorMaker, bucket *database.Bucket) *cursor {
	iter := source.NewIterator(util.BytesPrefix(bucket.Path()), nil)
	return &cursor{bucket: bucket, iter: iter}
}

func newTransactionCursor(source iteratorMaker, bucket *database.Bucket) *cursor {
	return newCursor(source, bucket)
}

func (c *cursor) Next() bool {
	return c.iter.Next()
}

func (c *cursor) First() bool {
	return c.iter.First()
}

func (c *cursor) Error() error {
	return c.iter.Error()
}

func (c *cursor) Key() (*database.DBKey, error) {
	fullKey := c.iter.Key()
	suffix := bytes.TrimPrefix(fullKey, c.bucket.Path())
	return c.bucket.Key(suffix), nil
}

func (c *cursor) Value() ([]byte, error) {
	value := c.iter.Value()
	valueClone := make([]byte, len(value))
	copy(valueClone, value)
	return valueClone, nil
}

func (c *cursor) Close() error {
	c.iter.Release()
	return c.iter.Error()
}
