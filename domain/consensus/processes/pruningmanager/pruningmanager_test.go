package pruningmanager

import (
	"math/big"
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/database/dbtest"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func hashFromLabel(label string) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	copy(hash[:], label)
	return &hash
}

// chainLink stages a single block's GHOSTDAG data with nothing but a blue
// score and a selected parent, which is all this package's decision logic
// reads.
func chainLink(t *testing.T, store model.GHOSTDAGDataStore, dbContext model.DBManager,
	hash *externalapi.DomainHash, blueScore uint64, selectedParent *externalapi.DomainHash) {

	t.Helper()
	tx, err := dbContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	store.Stage(hash, externalapi.NewBlockGHOSTDAGData(blueScore, externalapi.NewBlueWork(big.NewInt(int64(blueScore))), selectedParent, nil, nil, nil))
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}

// TestNextPruningPointsAndCandidateByGHOSTDAGData builds a linear chain
// G(0)-C1(1)-...-C10(10), a current candidate at C2, a current pruning
// point at G, and a sink at blue score 12, two ahead of C10. With a pruning depth
// of 5 and a finality interval of 3, only the blocks from C3 through C7 are
// at least pruningDepth behind the sink, and the candidate should land on
// the last of those (C7) while a new pruning point should be recorded each
// time crossing a finality interval boundary (C3, then C6).
func TestNextPruningPointsAndCandidateByGHOSTDAGData(t *testing.T) {
	genesis := hashFromLabel("G")
	dbContext := dbtest.New()
	store := ghostdagdatastore.New(100)

	chainLink(t, store, dbContext, genesis, 0, &externalapi.OriginHash)
	previous := genesis
	chain := make([]*externalapi.DomainHash, 0, 10)
	for i := uint64(1); i <= 10; i++ {
		hash := hashFromLabel(string(rune('a' + i)))
		chainLink(t, store, dbContext, hash, i, previous)
		chain = append(chain, hash)
		previous = hash
	}
	c2, c3, c6, c7, c10 := chain[1], chain[2], chain[5], chain[6], chain[9]

	manager := New(dbContext, store, genesis, 5, 3)

	newPruningPoints, newCandidate, err := manager.NextPruningPointsAndCandidateByGHOSTDAGData(
		&externalapi.CompactGhostdagData{BlueScore: 12, SelectedParent: c10}, nil, c2, genesis)
	if err != nil {
		t.Fatalf("NextPruningPointsAndCandidateByGHOSTDAGData: %s", err)
	}

	if !newCandidate.Equal(c7) {
		t.Errorf("newCandidate = %s, want %s", newCandidate, c7)
	}
	if !externalapi.HashesEqual(newPruningPoints, []*externalapi.DomainHash{c3, c6}) {
		t.Errorf("newPruningPoints = %v, want [%s %s]", newPruningPoints, c3, c6)
	}
}

// TestNextPruningPointsAndCandidateByGHOSTDAGDataNoDepthReached confirms that
// when the sink is not yet pruningDepth blocks ahead of the current
// candidate, no new pruning points are produced and the candidate stays put.
func TestNextPruningPointsAndCandidateByGHOSTDAGDataNoDepthReached(t *testing.T) {
	genesis := hashFromLabel("G")
	dbContext := dbtest.New()
	store := ghostdagdatastore.New(100)

	chainLink(t, store, dbContext, genesis, 0, &externalapi.OriginHash)
	c1 := hashFromLabel("c1")
	chainLink(t, store, dbContext, c1, 1, genesis)

	manager := New(dbContext, store, genesis, 100, 3)

	newPruningPoints, newCandidate, err := manager.NextPruningPointsAndCandidateByGHOSTDAGData(
		&externalapi.CompactGhostdagData{BlueScore: 2, SelectedParent: c1}, nil, genesis, genesis)
	if err != nil {
		t.Fatalf("NextPruningPointsAndCandidateByGHOSTDAGData: %s", err)
	}
	if len(newPruningPoints) != 0 {
		t.Errorf("newPruningPoints = %v, want none", newPruningPoints)
	}
	if !newCandidate.Equal(genesis) {
		t.Errorf("newCandidate = %s, want unchanged %s", newCandidate, genesis)
	}
}

// TestNextPruningPointsAndCandidateByGHOSTDAGDataOverride confirms that an
// explicit override floor is used in place of the current candidate when
// importing a pruning point rather than advancing virtual's own chain.
func TestNextPruningPointsAndCandidateByGHOSTDAGDataOverride(t *testing.T) {
	genesis := hashFromLabel("G")
	dbContext := dbtest.New()
	store := ghostdagdatastore.New(100)

	chainLink(t, store, dbContext, genesis, 0, &externalapi.OriginHash)
	previous := genesis
	var c4, c5 *externalapi.DomainHash
	for i := uint64(1); i <= 5; i++ {
		hash := hashFromLabel(string(rune('a' + i)))
		chainLink(t, store, dbContext, hash, i, previous)
		if i == 4 {
			c4 = hash
		}
		if i == 5 {
			c5 = hash
		}
		previous = hash
	}

	manager := New(dbContext, store, genesis, 1, 100)

	// A sink at c5's blue score is exactly pruningDepth ahead of c4, so the
	// walk stops one block short of c5, at c4, regardless of the stale
	// candidate the caller passed in.
	newPruningPoints, newCandidate, err := manager.NextPruningPointsAndCandidateByGHOSTDAGData(
		&externalapi.CompactGhostdagData{BlueScore: 5, SelectedParent: c5}, genesis, hashFromLabel("stale-candidate"), genesis)
	if err != nil {
		t.Fatalf("NextPruningPointsAndCandidateByGHOSTDAGData: %s", err)
	}
	if !newCandidate.Equal(c4) {
		t.Errorf("newCandidate = %s, want %s (override should replace the stale candidate as the walk floor)", newCandidate, c4)
	}
	if len(newPruningPoints) != 0 {
		t.Errorf("newPruningPoints = %v, want none with a finality interval this wide", newPruningPoints)
	}
}
