// Package dbtest provides an in-memory database.DBManager for use in tests,
// so a store's staging/commit behavior can be exercised without standing up
// a real on-disk database.
package dbtest

import (
	"bytes"
	"sort"
	"sync"

	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/pkg/errors"
)

type fakeManager struct {
	mu   sync.Mutex
	data map[string][]byte
}

// New creates a new in-memory database.DBManager.
func New() database.DBManager {
	return &fakeManager{data: make(map[string][]byte)}
}

func (m *fakeManager) Get(key *database.DBKey) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key.String()]
	if !ok {
		return nil, errors.Wrapf(database.ErrNotFound, "key %s", key)
	}
	return value, nil
}

func (m *fakeManager) Has(key *database.DBKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key.String()]
	return ok, nil
}

func (m *fakeManager) Put(key *database.DBKey, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key.String()] = value
	return nil
}

func (m *fakeManager) Delete(key *database.DBKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key.String())
	return nil
}

func (m *fakeManager) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := string(bucket.Path())
	keys := make([]string, 0)
	for key := range m.data {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = m.data[key]
	}

	return &fakeCursor{bucket: bucket, keys: keys, values: values, index: -1}, nil
}

func (m *fakeManager) Begin() (database.DBTransaction, error) {
	m.mu.Lock()
	snapshot := make(map[string][]byte, len(m.data))
	for key, value := range m.data {
		snapshot[key] = value
	}
	m.mu.Unlock()

	return &fakeTransaction{
		manager:  m,
		snapshot: snapshot,
		puts:     make(map[string][]byte),
		deletes:  make(map[string]struct{}),
	}, nil
}

func (m *fakeManager) Close() error {
	return nil
}

type fakeCursor struct {
	bucket *database.Bucket
	keys   []string
	values [][]byte
	index  int
}

func (c *fakeCursor) Next() bool {
	c.index++
	return c.index < len(c.keys)
}

func (c *fakeCursor) First() bool {
	c.index = 0
	return len(c.keys) > 0
}

func (c *fakeCursor) Error() error {
	return nil
}

func (c *fakeCursor) Key() (*database.DBKey, error) {
	suffix := bytes.TrimPrefix([]byte(c.keys[c.index]), c.bucket.Path())
	return c.bucket.Key(suffix), nil
}

func (c *fakeCursor) Value() ([]byte, error) {
	return c.values[c.index], nil
}

func (c *fakeCursor) Close() error {
	return nil
}

// fakeTransaction gives each transaction its own copy-on-write overlay over
// a snapshot of the manager's data taken at Begin time, so concurrent
// transactions in tests never see each other's uncommitted writes.
type fakeTransaction struct {
	manager  *fakeManager
	snapshot map[string][]byte
	puts     map[string][]byte
	deletes  map[string]struct{}
	closed   bool
}

func (tx *fakeTransaction) Get(key *database.DBKey) ([]byte, error) {
	k := key.String()
	if _, deleted := tx.deletes[k]; deleted {
		return nil, errors.Wrapf(database.ErrNotFound, "key %s", key)
	}
	if value, ok := tx.puts[k]; ok {
		return value, nil
	}
	if value, ok := tx.snapshot[k]; ok {
		return value, nil
	}
	return nil, errors.Wrapf(database.ErrNotFound, "key %s", key)
}

func (tx *fakeTransaction) Has(key *database.DBKey) (bool, error) {
	_, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (tx *fakeTransaction) Put(key *database.DBKey, value []byte) error {
	k := key.String()
	delete(tx.deletes, k)
	tx.puts[k] = value
	return nil
}

func (tx *fakeTransaction) Delete(key *database.DBKey) error {
	k := key.String()
	delete(tx.puts, k)
	tx.deletes[k] = struct{}{}
	return nil
}

func (tx *fakeTransaction) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	prefix := string(bucket.Path())
	merged := make(map[string][]byte, len(tx.snapshot))
	for key, value := range tx.snapshot {
		merged[key] = value
	}
	for key, value := range tx.puts {
		merged[key] = value
	}
	for key := range tx.deletes {
		delete(merged, key)
	}

	keys := make([]string, 0)
	for key := range merged {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = merged[key]
	}

	return &fakeCursor{bucket: bucket, keys: keys, values: values, index: -1}, nil
}

func (tx *fakeTransaction) Commit() error {
	if tx.closed {
		return errors.New("cannot commit a closed transaction")
	}
	tx.closed = true

	tx.manager.mu.Lock()
	defer tx.manager.mu.Unlock()
	for key, value := range tx.puts {
		tx.manager.data[key] = value
	}
	for key := range tx.deletes {
		delete(tx.manager.data, key)
	}
	return nil
}

func (tx *fakeTransaction) Rollback() error {
	if tx.closed {
		return errors.New("cannot roll back a closed transaction")
	}
	tx.closed = true
	return nil
}

func (tx *fakeTransaction) RollbackUnlessClosed() error {
	if tx.closed {
		return nil
	}
	return tx.Rollback()
}
