package selectedchainstore

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

func commit(t *testing.T, dbContext model.DBManager, store model.SelectedChainStore) {
	t.Helper()
	tx, err := dbContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}

func TestBijectionSurvivesCommit(t *testing.T) {
	dbContext := dbtest.New()
	store := New()
	a, b := hashFromLabel("A"), hashFromLabel("B")

	store.StageAddChainBlock(a, 0)
	store.StageAddChainBlock(b, 1)
	commit(t, dbContext, store)

	hash, err := store.GetHashByIndex(dbContext, 1)
	if err != nil {
		t.Fatalf("GetHashByIndex: %s", err)
	}
	if !hash.Equal(b) {
		t.Errorf("GetHashByIndex(1) = %s, want %s", hash, b)
	}

	index, err := store.GetIndexByHash(dbContext, a)
	if err != nil {
		t.Fatalf("GetIndexByHash: %s", err)
	}
	if index != 0 {
		t.Errorf("GetIndexByHash(A) = %d, want 0", index)
	}

	highest, err := store.HighestIndex(dbContext)
	if err != nil {
		t.Fatalf("HighestIndex: %s", err)
	}
	if highest != 1 {
		t.Errorf("HighestIndex = %d, want 1", highest)
	}
}

func TestRemoveChainBlockIndexBelowTrimsOldEntries(t *testing.T) {
	dbContext := dbtest.New()
	store := New()
	a, b, c := hashFromLabel("A"), hashFromLabel("B"), hashFromLabel("C")

	store.StageAddChainBlock(a, 0)
	store.StageAddChainBlock(b, 1)
	store.StageAddChainBlock(c, 2)
	commit(t, dbContext, store)

	store.StageRemoveChainBlockIndexBelow(2)
	commit(t, dbContext, store)

	if _, err := store.GetIndexByHash(dbContext, a); err == nil {
		t.Errorf("expected A (index 0) to have been trimmed")
	}
	if _, err := store.GetIndexByHash(dbContext, b); err == nil {
		t.Errorf("expected B (index 1) to have been trimmed")
	}
	index, err := store.GetIndexByHash(dbContext, c)
	if err != nil {
		t.Fatalf("GetIndexByHash(C): %s", err)
	}
	if index != 2 {
		t.Errorf("GetIndexByHash(C) = %d, want 2 (untrimmed)", index)
	}

	// The highest-index marker is untouched by trimming the tail.
	highest, err := store.HighestIndex(dbContext)
	if err != nil {
		t.Fatalf("HighestIndex: %s", err)
	}
	if highest != 2 {
		t.Errorf("HighestIndex = %d, want 2", highest)
	}
}

func TestRemoveBelowDropsStagedEntriesBeforeTheyCommit(t *testing.T) {
	dbContext := dbtest.New()
	store := New()
	a, b := hashFromLabel("A"), hashFromLabel("B")

	store.StageAddChainBlock(a, 0)
	store.StageAddChainBlock(b, 5)
	store.StageRemoveChainBlockIndexBelow(5)
	commit(t, dbContext, store)

	if _, err := store.GetIndexByHash(dbContext, a); err == nil {
		t.Errorf("expected A to never have reached the database")
	}
	index, err := store.GetIndexByHash(dbContext, b)
	if err != nil {
		t.Fatalf("GetIndexByHash(B): %s", err)
	}
	if index != 5 {
		t.Errorf("GetIndexByHash(B) = %d, want 5", index)
	}
}
