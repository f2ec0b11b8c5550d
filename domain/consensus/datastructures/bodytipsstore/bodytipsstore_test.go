package bodytipsstore

import (
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/database/dbtest"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func hashFromLabel(label string) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	copy(hash[:], label)
	return &hash
}

func contains(hashes []*externalapi.DomainHash, target *externalapi.DomainHash) bool {
	for _, hash := range hashes {
		if hash.Equal(target) {
			return true
		}
	}
	return false
}

func TestTipsReflectsStagedAddsBeforeCommit(t *testing.T) {
	dbContext := dbtest.New()
	store := New()

	a, b := hashFromLabel("A"), hashFromLabel("B")
	store.StageAdd(a)
	store.StageAdd(b)

	tips, err := store.Tips(dbContext)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if len(tips) != 2 || !contains(tips, a) || !contains(tips, b) {
		t.Errorf("Tips = %v, want [A B] even before commit", tips)
	}
}

func TestStageRemoveDropsATipAcrossCommit(t *testing.T) {
	dbContext := dbtest.New()
	store := New()

	a, b := hashFromLabel("A"), hashFromLabel("B")
	store.StageAdd(a)
	store.StageAdd(b)

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

	store.StageRemove(a)
	tips, err := store.Tips(dbContext)
	if err != nil {
		t.Fatalf("Tips (staged remove): %s", err)
	}
	if len(tips) != 1 || !contains(tips, b) {
		t.Errorf("Tips (pre-commit) = %v, want [B]", tips)
	}

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

	tips, err = store.Tips(dbContext)
	if err != nil {
		t.Fatalf("Tips (after commit): %s", err)
	}
	if len(tips) != 1 || !contains(tips, b) {
		t.Errorf("Tips (post-commit) = %v, want [B]", tips)
	}
}

func TestStageAddAfterStageRemoveWins(t *testing.T) {
	dbContext := dbtest.New()
	store := New()

	a := hashFromLabel("A")
	store.StageAdd(a)
	store.StageRemove(a)
	store.StageAdd(a)

	tips, err := store.Tips(dbContext)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if len(tips) != 1 || !contains(tips, a) {
		t.Errorf("Tips = %v, want [A] (the later StageAdd should win)", tips)
	}
}
