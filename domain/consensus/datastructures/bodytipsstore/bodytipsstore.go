// Package bodytipsstore tracks the set of hashes that are leaves of the
// body-having (not just header) sub-DAG. Each tip is a standalone key under
// the store's bucket; the value carries no meaning.
package bodytipsstore

import (
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

var bucket = database.MakeBucket([]byte("body-tips"))

var present = []byte{1}

type bodyTipsStore struct {
	toAdd    map[externalapi.DomainHash]struct{}
	toRemove map[externalapi.DomainHash]struct{}
}

// New instantiates a new BodyTipsStore.
func New() model.BodyTipsStore {
	return &bodyTipsStore{
		toAdd:    make(map[externalapi.DomainHash]struct{}),
		toRemove: make(map[externalapi.DomainHash]struct{}),
	}
}

func (bts *bodyTipsStore) StageAdd(blockHash *externalapi.DomainHash) {
	delete(bts.toRemove, *blockHash)
	bts.toAdd[*blockHash] = struct{}{}
}

func (bts *bodyTipsStore) StageRemove(blockHash *externalapi.DomainHash) {
	delete(bts.toAdd, *blockHash)
	bts.toRemove[*blockHash] = struct{}{}
}

func (bts *bodyTipsStore) IsStaged() bool {
	return len(bts.toAdd) != 0 || len(bts.toRemove) != 0
}

func (bts *bodyTipsStore) Discard() {
	bts.toAdd = make(map[externalapi.DomainHash]struct{})
	bts.toRemove = make(map[externalapi.DomainHash]struct{})
}

func (bts *bodyTipsStore) Commit(dbTx model.DBTransaction) error {
	for hash := range bts.toAdd {
		hash := hash
		if err := dbTx.Put(hashAsKey(&hash), present); err != nil {
			return err
		}
	}

	for hash := range bts.toRemove {
		hash := hash
		if err := dbTx.Delete(hashAsKey(&hash)); err != nil {
			return err
		}
	}

	bts.Discard()
	return nil
}

// Tips returns every hash currently recorded as a body tip, reflecting
// staged adds and removes that have not yet been committed.
func (bts *bodyTipsStore) Tips(dbContext model.DBReader) ([]*externalapi.DomainHash, error) {
	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	tips := make(map[externalapi.DomainHash]struct{})
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		var hash externalapi.DomainHash
		copy(hash[:], key.Suffix())
		tips[hash] = struct{}{}
	}
	if err := cursor.Error(); err != nil {
		return nil, err
	}

	for hash := range bts.toRemove {
		delete(tips, hash)
	}
	for hash := range bts.toAdd {
		tips[hash] = struct{}{}
	}

	result := make([]*externalapi.DomainHash, 0, len(tips))
	for hash := range tips {
		hash := hash
		result = append(result, &hash)
	}
	return result, nil
}

func hashAsKey(hash *externalapi.DomainHash) *model.DBKey {
	return bucket.Key(hash[:])
}
