package reachabilitydatastore

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

func TestStageReindexRootPersistsAcrossCommit(t *testing.T) {
	dbContext := dbtest.New()
	store := New(10)

	root := hashFromLabel("R")
	store.StageReindexRoot(root)

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

	got, err := store.ReindexRoot(dbContext)
	if err != nil {
		t.Fatalf("ReindexRoot: %s", err)
	}
	if !got.Equal(root) {
		t.Errorf("ReindexRoot = %s, want %s", got, root)
	}
}

func TestReachabilityDataRoundTripAndDelete(t *testing.T) {
	dbContext := dbtest.New()
	store := New(10)

	block, parent, child := hashFromLabel("B"), hashFromLabel("P"), hashFromLabel("C")
	store.StageReachabilityData(block, &model.ReachabilityData{
		Interval: &model.ReachabilityInterval{Start: 1, End: 9},
		Parent:   parent,
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

	data, err := store.ReachabilityData(dbContext, block)
	if err != nil {
		t.Fatalf("ReachabilityData: %s", err)
	}
	if data.Interval.Start != 1 || data.Interval.End != 9 {
		t.Errorf("Interval = %+v, want {1 9}", data.Interval)
	}
	if !data.Parent.Equal(parent) {
		t.Errorf("Parent = %s, want %s", data.Parent, parent)
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

	has, err := store.HasReachabilityData(dbContext, block)
	if err != nil {
		t.Fatalf("HasReachabilityData: %s", err)
	}
	if has {
		t.Errorf("expected reachability data to be gone after delete+commit")
	}
}
