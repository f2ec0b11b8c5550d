// Package consensus wires the pruning pipeline's collaborators together: a
// single place that knows how every store and process is constructed and
// handed to its dependents, so cmd/pruneharness and tests never have to
// duplicate that wiring.
package consensus

import (
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
	"github.com/daglabs/prunepoint/domain/consensus/processes/pruningmanager"
	"github.com/daglabs/prunepoint/domain/consensus/processes/pruningprocessor"
	"github.com/daglabs/prunepoint/domain/consensus/processes/pruningproofmanager"
	"github.com/daglabs/prunepoint/domain/consensus/processes/reachabilitymanager"
	"github.com/daglabs/prunepoint/domain/consensus/utils/locks"
	"github.com/daglabs/prunepoint/domain/consensus/utils/windowcache"
	"github.com/daglabs/prunepoint/domain/dagconfig"
)

// defaultCacheSize is the LRU capacity given to every cached store the
// factory builds. Without production access-pattern telemetry to size
// against, every store gets the same modest cache.
const defaultCacheSize = 10_000

// proofLevels is the number of GHOSTDAG levels the pruning point proof
// carries. This module's simplified proof construction uses a single
// level rather than varying it with K.
const proofLevels = 1

// secondsPerBlock is the block production target assumed when expressing
// FinalityDuration as a block count; PruningDepth already arrives as a block
// count computed at the same target (see domain/dagconfig/params.go).
const secondsPerBlock = 1

// blockLevels is the number of per-level GHOSTDAG/relations stores this
// module carries. A full node tracks one level per achievable block
// difficulty; this module's simplified level model carries exactly the
// levels the proof needs.
const blockLevels = proofLevels

// Collaborators bundles every long-lived object the factory constructs, for
// callers (cmd/pruneharness, tests) that need direct access to a store or
// manager alongside the processor itself.
type Collaborators struct {
	Processor *pruningprocessor.PruningProcessor

	ReachabilityManager   model.ReachabilityManager
	ReachabilityDataStore model.ReachabilityDataStore
	PruningPointManager   model.PruningPointManager
	PruningProofManager   model.PruningProofManager
	PruningStore          model.PruningStore
	PruningPointUTXOSet   model.PruningPointUTXOSetStore
	UTXODiffStore         model.UTXODiffStore
	BlockStatusStore      model.BlockStatusStore
	BlockStore            model.BlockStore
	BlockHeaderStore      model.BlockHeaderStore
	MultisetStore         model.MultisetStore
	AcceptanceDataStore   model.AcceptanceDataStore
	BodyTipsStore         model.BodyTipsStore
	SelectedChainStore    model.SelectedChainStore
	Levels                []pruningprocessor.LevelStores
}

// New constructs every pruning pipeline collaborator against databaseContext,
// configured from dagParams, and returns them bundled together with the
// PruningProcessor that ties them into a runnable worker.
func New(dagParams *dagconfig.Params, databaseContext model.DBManager) (*Collaborators, error) {
	acceptanceDataStore := acceptancedatastore.New(defaultCacheSize)
	blockStore := blockstore.New(defaultCacheSize)
	blockStatusStore := blockstatusstore.New(defaultCacheSize)
	multisetStore := multisetstore.New(defaultCacheSize)
	pruningStore := pruningstore.New()
	pruningPointUTXOSet := pruningpointutxosetstore.New()
	reachabilityDataStore := reachabilitydatastore.New(defaultCacheSize)
	utxoDiffStore := utxodiffstore.New(defaultCacheSize)
	bodyTipsStore := bodytipsstore.New()
	selectedChainStore := selectedchainstore.New()

	blockHeaderStore, err := blockheaderstore.New(databaseContext, defaultCacheSize)
	if err != nil {
		return nil, err
	}

	levels := make([]pruningprocessor.LevelStores, blockLevels)
	for i := range levels {
		levels[i] = pruningprocessor.LevelStores{
			GHOSTDAGDataStore:  ghostdagdatastore.New(defaultCacheSize),
			BlockRelationStore: blockrelationstore.New(defaultCacheSize),
		}
	}

	difficultyWindowCache := windowcache.New(defaultCacheSize)
	pastMedianTimeWindowCache := windowcache.New(defaultCacheSize)
	windowCacheInvalidator := windowcache.NewMultiInvalidator(difficultyWindowCache, pastMedianTimeWindowCache)

	reachabilityManager := reachabilitymanager.New(databaseContext, reachabilityDataStore)

	finalityInterval := uint64(dagParams.FinalityDuration.Seconds()) / secondsPerBlock
	pruningPointManager := pruningmanager.New(
		databaseContext,
		levels[0].GHOSTDAGDataStore,
		dagParams.GenesisHash,
		dagParams.PruningDepth,
		finalityInterval)

	virtualParents := func() ([]*externalapi.DomainHash, error) {
		return bodyTipsStore.Tips(databaseContext)
	}
	pruningProofManager := pruningproofmanager.New(
		databaseContext,
		blockHeaderStore,
		levels[0].GHOSTDAGDataStore,
		pruningStore,
		dagParams.GenesisHash,
		proofLevels,
		dagParams.PruningDepth,
		virtualParents,
	)

	processor := pruningprocessor.New(
		databaseContext,
		locks.NewSessionLock(),
		reachabilityManager,
		reachabilityDataStore,
		pruningPointManager,
		pruningProofManager,
		pruningStore,
		pruningPointUTXOSet,
		utxoDiffStore,
		blockStatusStore,
		blockStore,
		blockHeaderStore,
		multisetStore,
		acceptanceDataStore,
		bodyTipsStore,
		selectedChainStore,
		windowCacheInvalidator,
		levels,
		pruningprocessor.Config{
			GenesisHash:        dagParams.GenesisHash,
			IsArchival:         dagParams.IsArchival,
			EnableSanityChecks: dagParams.EnableSanityChecks,
		},
	)

	return &Collaborators{
		Processor:             processor,
		ReachabilityManager:   reachabilityManager,
		ReachabilityDataStore: reachabilityDataStore,
		PruningPointManager:   pruningPointManager,
		PruningProofManager:   pruningProofManager,
		PruningStore:          pruningStore,
		PruningPointUTXOSet:   pruningPointUTXOSet,
		UTXODiffStore:         utxoDiffStore,
		BlockStatusStore:      blockStatusStore,
		BlockStore:            blockStore,
		BlockHeaderStore:      blockHeaderStore,
		MultisetStore:         multisetStore,
		AcceptanceDataStore:   acceptanceDataStore,
		BodyTipsStore:         bodyTipsStore,
		SelectedChainStore:    selectedChainStore,
		Levels:                levels,
	}, nil
}
