package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/database/dbtest"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/acceptancedatastore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/blockheaderstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/blockrelationstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/blockstatusstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/blockstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/bodytipsstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/multisetstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/pruningpointutxosetstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/pruningstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/selectedchainstore"
	"github.com/daglabs/prunepoint/domain/consensus/datastructures/utxodiffstore"
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/locks"
	"github.com/daglabs/prunepoint/domain/consensus/utils/windowcache"
	"github.com/pkg/errors"
)

const testCacheSize = 100

// hashFromLabel turns a short ASCII label into a deterministic DomainHash,
// so test fixtures can be written and read as plain letters.
func hashFromLabel(label string) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	copy(hash[:], label)
	return &hash
}

// fakeDAG is a hand-rolled model.ReachabilityManager backed by an explicit
// parent/child adjacency list plus an explicit selected-parent chain, so
// tests can assert pruning decisions against a DAG shape they fully control.
type fakeDAG struct {
	parents  map[externalapi.DomainHash][]*externalapi.DomainHash
	children map[externalapi.DomainHash][]*externalapi.DomainHash
	chain    []*externalapi.DomainHash
	deleted  []*externalapi.DomainHash
}

func newFakeDAG() *fakeDAG {
	return &fakeDAG{
		parents:  make(map[externalapi.DomainHash][]*externalapi.DomainHash),
		children: make(map[externalapi.DomainHash][]*externalapi.DomainHash),
	}
}

func (f *fakeDAG) addEdge(parent, child *externalapi.DomainHash) {
	f.parents[*child] = append(f.parents[*child], parent)
	f.children[*parent] = append(f.children[*parent], child)
}

func (f *fakeDAG) IsDAGAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	if blockHashA.Equal(blockHashB) {
		return true, nil
	}
	visited := make(map[externalapi.DomainHash]bool)
	queue := append([]*externalapi.DomainHash{}, f.parents[*blockHashB]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[*current] {
			continue
		}
		visited[*current] = true
		if current.Equal(blockHashA) {
			return true, nil
		}
		queue = append(queue, f.parents[*current]...)
	}
	return false, nil
}

func (f *fakeDAG) IsReachabilityTreeAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return f.IsDAGAncestorOf(blockHashA, blockHashB)
}

func (f *fakeDAG) GetChildren(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return append([]*externalapi.DomainHash{}, f.children[*blockHash]...), nil
}

func (f *fakeDAG) DeleteBlock(dbTx model.DBTransaction, blockHash *externalapi.DomainHash) error {
	f.deleted = append(f.deleted, blockHash)
	return nil
}

func (f *fakeDAG) UpdateReindexRoot(dbTx model.DBTransaction, newRoot *externalapi.DomainHash) error {
	return nil
}

func (f *fakeDAG) ForwardChainIterator(lowHash, highHash *externalapi.DomainHash) (model.ForwardChainIterator, error) {
	lowIndex, highIndex := -1, -1
	for i, hash := range f.chain {
		if hash.Equal(lowHash) {
			lowIndex = i
		}
		if hash.Equal(highHash) {
			highIndex = i
		}
	}
	if lowIndex == -1 || highIndex == -1 || lowIndex > highIndex {
		return nil, errors.Errorf("no chain range from %s to %s", lowHash, highHash)
	}
	return &fakeForwardChainIterator{hashes: f.chain[lowIndex+1 : highIndex+1], index: -1}, nil
}

type fakeForwardChainIterator struct {
	hashes []*externalapi.DomainHash
	index  int
}

func (it *fakeForwardChainIterator) Next() bool {
	it.index++
	return it.index < len(it.hashes)
}

func (it *fakeForwardChainIterator) Get() (*externalapi.DomainHash, error) {
	return it.hashes[it.index], nil
}

func (it *fakeForwardChainIterator) Close() error {
	return nil
}

// fakePruningPointManager hands back a canned decision instead of running
// the real finality-interval arithmetic.
type fakePruningPointManager struct {
	newPruningPoints []*externalapi.DomainHash
	newCandidate     *externalapi.DomainHash
}

func (f *fakePruningPointManager) NextPruningPointsAndCandidateByGHOSTDAGData(
	sinkGHOSTDAGData *externalapi.CompactGhostdagData, overridePruningPoint, currentCandidate,
	currentPruningPoint *externalapi.DomainHash) ([]*externalapi.DomainHash, *externalapi.DomainHash, error) {
	return f.newPruningPoints, f.newCandidate, nil
}

// fakePruningProofManager hands back canned proof and trusted-data values,
// so verifySanity can be driven without a real GHOSTDAG/header fixture.
type fakePruningProofManager struct {
	proof       externalapi.PruningPointProof
	trustedData *externalapi.TrustedData
}

func (f *fakePruningProofManager) GetPruningPointProof() (externalapi.PruningPointProof, error) {
	return f.proof, nil
}

func (f *fakePruningProofManager) GetPruningPointAnticoneAndTrustedData() (*externalapi.TrustedData, error) {
	return f.trustedData, nil
}

func (f *fakePruningProofManager) BuildPruningPointProof(pruningPointHash *externalapi.DomainHash) (externalapi.PruningPointProof, error) {
	return f.proof, nil
}

func (f *fakePruningProofManager) CalculatePruningPointAnticoneAndTrustedData(
	pruningPointHash *externalapi.DomainHash, virtualParents []*externalapi.DomainHash) (*externalapi.TrustedData, error) {
	return f.trustedData, nil
}

// testFixture bundles a freshly wired PruningProcessor together with the
// real stores backing it and the fake collaborators driving its decisions,
// so test cases can both call processor methods and inspect store state
// directly.
type testFixture struct {
	processor *PruningProcessor

	dag                 *fakeDAG
	pruningPointManager *fakePruningPointManager
	pruningProofManager *fakePruningProofManager

	databaseContext    model.DBManager
	pruningStore       model.PruningStore
	pruningPointUTXOSet model.PruningPointUTXOSetStore
	utxoDiffStore       model.UTXODiffStore
	blockStatusStore    model.BlockStatusStore
	blockStore          model.BlockStore
	blockHeaderStore    model.BlockHeaderStore
	multisetStore       model.MultisetStore
	acceptanceDataStore model.AcceptanceDataStore
	bodyTipsStore       model.BodyTipsStore
	selectedChainStore  model.SelectedChainStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	relationStore       model.BlockRelationStore
}

func newTestFixture(genesisHash *externalapi.DomainHash, isArchival, enableSanityChecks bool) *testFixture {
	databaseContext := dbtest.New()

	blockHeaderStore, err := blockheaderstore.New(databaseContext, testCacheSize)
	if err != nil {
		panic(err)
	}

	fixture := &testFixture{
		dag:                 newFakeDAG(),
		pruningPointManager: &fakePruningPointManager{},
		pruningProofManager: &fakePruningProofManager{},

		databaseContext:     databaseContext,
		pruningStore:        pruningstore.New(),
		pruningPointUTXOSet: pruningpointutxosetstore.New(),
		utxoDiffStore:       utxodiffstore.New(testCacheSize),
		blockStatusStore:    blockstatusstore.New(testCacheSize),
		blockStore:          blockstore.New(testCacheSize),
		blockHeaderStore:    blockHeaderStore,
		multisetStore:       multisetstore.New(testCacheSize),
		acceptanceDataStore: acceptancedatastore.New(testCacheSize),
		bodyTipsStore:       bodytipsstore.New(),
		selectedChainStore:  selectedchainstore.New(),
		ghostdagDataStore:   ghostdagdatastore.New(testCacheSize),
		relationStore:       blockrelationstore.New(testCacheSize),
	}

	reachabilityDataStore := reachabilitydatastore.New(testCacheSize)
	windowCacheInvalidator := windowcache.NewMultiInvalidator(windowcache.New(testCacheSize))

	fixture.processor = New(
		databaseContext,
		locks.NewSessionLock(),
		fixture.dag,
		reachabilityDataStore,
		fixture.pruningPointManager,
		fixture.pruningProofManager,
		fixture.pruningStore,
		fixture.pruningPointUTXOSet,
		fixture.utxoDiffStore,
		fixture.blockStatusStore,
		fixture.blockStore,
		fixture.blockHeaderStore,
		fixture.multisetStore,
		fixture.acceptanceDataStore,
		fixture.bodyTipsStore,
		fixture.selectedChainStore,
		windowCacheInvalidator,
		[]LevelStores{{GHOSTDAGDataStore: fixture.ghostdagDataStore, BlockRelationStore: fixture.relationStore}},
		Config{GenesisHash: genesisHash, IsArchival: isArchival, EnableSanityChecks: enableSanityChecks},
	)

	return fixture
}

// stageGHOSTDAGData commits a minimal BlockGHOSTDAGData for hash whose only
// role in these tests is exposing a selected-parent chain to selectedParentChainTo.
func (f *testFixture) stageGHOSTDAGData(hash, selectedParent *externalapi.DomainHash) {
	tx, err := f.databaseContext.Begin()
	if err != nil {
		panic(err)
	}
	defer tx.RollbackUnlessClosed()

	f.ghostdagDataStore.Stage(hash, externalapi.NewBlockGHOSTDAGData(
		0, externalapi.NewBlueWork(nil), selectedParent, nil, nil, nil))
	if err := f.ghostdagDataStore.Commit(tx); err != nil {
		panic(err)
	}
	if err := tx.Commit(); err != nil {
		panic(err)
	}
}

// stageBlockBody commits everything a "fully present" block carries: header,
// status, body, and a body tip entry, so tests can assert it disappears (or
// survives) after a sweep.
func (f *testFixture) stageBlockBody(hash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) {
	tx, err := f.databaseContext.Begin()
	if err != nil {
		panic(err)
	}
	defer tx.RollbackUnlessClosed()

	f.blockHeaderStore.Stage(hash, header)
	f.blockStatusStore.Stage(hash, externalapi.StatusUTXOValid)
	f.bodyTipsStore.StageAdd(hash)

	if err := f.blockHeaderStore.Commit(tx); err != nil {
		panic(err)
	}
	if err := f.blockStatusStore.Commit(tx); err != nil {
		panic(err)
	}
	if err := f.bodyTipsStore.Commit(tx); err != nil {
		panic(err)
	}
	if err := tx.Commit(); err != nil {
		panic(err)
	}
}
