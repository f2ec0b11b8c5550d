package database

import "github.com/pkg/errors"

// ErrNotFound is returned by DBReader.Get when the requested key does not
// exist.
var ErrNotFound = errors.New("key not found")

// DBKey is a key addressing a single value inside a bucket's namespace.
type DBKey struct {
	bucketPath []byte
	suffix     []byte
}

// Bytes returns the fully-qualified byte representation of this key, as
// stored on disk: the bucket path followed by the key's own suffix.
func (k *DBKey) Bytes() []byte {
	bytes := make([]byte, 0, len(k.bucketPath)+len(k.suffix))
	bytes = append(bytes, k.bucketPath...)
	bytes = append(bytes, k.suffix...)
	return bytes
}

func (k *DBKey) String() string {
	return string(k.Bytes())
}

// Suffix returns the key's bucket-local suffix, stripped of its bucket path.
func (k *DBKey) Suffix() []byte {
	return k.suffix
}

// Bucket separates a logical namespace of keys, so stores built on a single
// flat KV backend don't collide with each other.
type Bucket struct {
	path []byte
}

// MakeBucket creates a new Bucket for the given path components.
func MakeBucket(path ...[]byte) *Bucket {
	fullPath := make([]byte, 0)
	for _, part := range path {
		fullPath = append(fullPath, part...)
		fullPath = append(fullPath, bucketSeparator)
	}
	return &Bucket{path: fullPath}
}

const bucketSeparator = '/'

// Key builds a DBKey scoped to this bucket from the given suffix.
func (b *Bucket) Key(suffix []byte) *DBKey {
	return &DBKey{bucketPath: b.path, suffix: suffix}
}

// Path returns this bucket's full path bytes, separator included.
func (b *Bucket) Path() []byte {
	return b.path
}

// DBReader is the read side of the database facade, implemented by both a
// DBManager and a DBTransaction so stores can accept either.
type DBReader interface {
	Get(key *DBKey) ([]byte, error)
	Has(key *DBKey) (bool, error)
	Cursor(bucket *Bucket) (Cursor, error)
}

// DBWriter is the write side of the database facade.
type DBWriter interface {
	Put(key *DBKey, value []byte) error
	Delete(key *DBKey) error
}

// Cursor iterates over the key/value pairs of a single bucket in key order.
type Cursor interface {
	Next() bool
	Error() error
	First() bool
	Key() (*DBKey, error)
	Value() ([]byte, error)
	Close() error
}

// DBTransaction is a single atomic batch of reads and writes. The pruning
// processor's write-amplification guarantee hinges on every block's worth of
// deletions landing in exactly one DBTransaction.
type DBTransaction interface {
	DBReader
	DBWriter
	Commit() error
	Rollback() error
	RollbackUnlessClosed() error
}

// DBManager is the top-level handle to the underlying key/value store. It
// can perform reads and writes outside of a transaction, and can open new
// transactions for batched, atomic writes.
type DBManager interface {
	DBReader
	DBWriter
	Begin() (DBTransaction, error)
	Close() error
}
