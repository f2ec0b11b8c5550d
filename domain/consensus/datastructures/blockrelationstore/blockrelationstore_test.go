package blockrelationstore

import (
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/database/dbtest"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func hashFromLabel(label string) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	copy(hash[:], label)
	return &hash
}

func TestStageCommitDeleteRoundTrip(t *testing.T) {
	dbContext := dbtest.New()
	store := New(10)

	block, parent, child := hashFromLabel("B"), hashFromLabel("P"), hashFromLabel("C")
	store.Stage(block, &model.BlockRelations{
		Parents:  []*externalapi.DomainHash{parent},
		Children: []*externalapi.DomainHash{child},
	})

	tx, err := dbContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}

	relations, err := store.BlockRelation(dbContext, block)
	if err != nil {
		t.Fatalf("BlockRelation: %s", err)
	}
	if !externalapi.HashesEqual(relations.Parents, []*externalapi.DomainHash{parent}) {
		t.Errorf("Parents = %v, want [%s]", relations.Parents, parent)
	}
	if !externalapi.HashesEqual(relations.Children, []*externalapi.DomainHash{child}) {
		t.Errorf("Children = %v, want [%s]", relations.Children, child)
	}

	has, err := store.Has(dbContext, block)
	if err != nil {
		t.Fatalf("Has: %s", err)
	}
	if !has {
		t.Errorf("expected Has to be true after commit")
	}

	store.Delete(block)
	tx, err = dbContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}

	has, err = store.Has(dbContext, block)
	if err != nil {
		t.Fatalf("Has (after delete): %s", err)
	}
	if has {
		t.Errorf("expected Has to be false after delete+commit")
	}
}

func TestClonedRelationsAreIndependentOfStagingMutation(t *testing.T) {
	dbContext := dbtest.New()
	store := New(10)

	block, parent := hashFromLabel("B"), hashFromLabel("P")
	store.Stage(block, &model.BlockRelations{Parents: []*externalapi.DomainHash{parent}})

	relations, err := store.BlockRelation(dbContext, block)
	if err != nil {
		t.Fatalf("BlockRelation: %s", err)
	}
	relations.Parents[0] = hashFromLabel("MUTATED")

	again, err := store.BlockRelation(dbContext, block)
	if err != nil {
		t.Fatalf("BlockRelation (again): %s", err)
	}
	if !again.Parents[0].Equal(parent) {
		t.Errorf("store's staged relations were mutated through a returned clone: got %s, want %s", again.Parents[0], parent)
	}
}
