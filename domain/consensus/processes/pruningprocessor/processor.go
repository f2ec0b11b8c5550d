// Package pruningprocessor is the pruning pipeline's single dedicated
// worker: it receives fresh sink GHOSTDAG data over a channel, decides
// whether to advance the pruning point, and if so prunes every block that
// falls outside the new pruning point's keep sets. It owns no algorithm of
// its own beyond orchestration — the pruning-point decision, proof
// construction, and reachability queries are all injected collaborators.
package pruningprocessor

import (
	"context"
	"time"

	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/utils/locks"
	"github.com/pkg/errors"
)

// pruneYieldBudget is how long the main traversal may hold the pruning
// lock in write mode before cooperatively yielding it to
// queued block/virtual processors. A tuning knob, not exposed on the
// external config surface.
const pruneYieldBudget = 5 * time.Millisecond

// LevelStores bundles the per-block-level stores the processor must update
// in lockstep: GHOSTDAG data and DAG relations are both kept one instance
// per block level.
type LevelStores struct {
	GHOSTDAGDataStore  model.GHOSTDAGDataStore
	BlockRelationStore model.BlockRelationStore
}

// Config is the static configuration surface the pruning processor reads.
type Config struct {
	GenesisHash        *externalapi.DomainHash
	IsArchival         bool
	EnableSanityChecks bool
}

// PruningProcessor is the pruning pipeline's single worker.
type PruningProcessor struct {
	databaseContext model.DBManager
	pruningLock     *locks.SessionLock

	reachabilityManager    model.ReachabilityManager
	reachabilityDataStore  model.ReachabilityDataStore
	pruningPointManager    model.PruningPointManager
	pruningProofManager    model.PruningProofManager
	pruningStore           model.PruningStore
	pruningPointUTXOSet    model.PruningPointUTXOSetStore
	utxoDiffStore          model.UTXODiffStore
	blockStatusStore       model.BlockStatusStore
	blockStore             model.BlockStore
	blockHeaderStore       model.BlockHeaderStore
	multisetStore          model.MultisetStore
	acceptanceDataStore    model.AcceptanceDataStore
	bodyTipsStore          model.BodyTipsStore
	selectedChainStore     model.SelectedChainStore
	windowCacheInvalidator model.WindowCacheInvalidator
	levels                 []LevelStores

	config Config

	messages chan ProcessMessage

	// deferredPruningPointCommit holds the pruning-point info commit when
	// sanity checking is enabled, so it can be applied only after the UTXO
	// commitment check has passed.
	deferredPruningPointCommit func() error
}

// New instantiates a new PruningProcessor. The returned processor does not
// start running until Run is called.
func New(
	databaseContext model.DBManager,
	pruningLock *locks.SessionLock,
	reachabilityManager model.ReachabilityManager,
	reachabilityDataStore model.ReachabilityDataStore,
	pruningPointManager model.PruningPointManager,
	pruningProofManager model.PruningProofManager,
	pruningStore model.PruningStore,
	pruningPointUTXOSet model.PruningPointUTXOSetStore,
	utxoDiffStore model.UTXODiffStore,
	blockStatusStore model.BlockStatusStore,
	blockStore model.BlockStore,
	blockHeaderStore model.BlockHeaderStore,
	multisetStore model.MultisetStore,
	acceptanceDataStore model.AcceptanceDataStore,
	bodyTipsStore model.BodyTipsStore,
	selectedChainStore model.SelectedChainStore,
	windowCacheInvalidator model.WindowCacheInvalidator,
	levels []LevelStores,
	config Config,
) *PruningProcessor {

	return &PruningProcessor{
		databaseContext:        databaseContext,
		pruningLock:            pruningLock,
		reachabilityManager:    reachabilityManager,
		reachabilityDataStore:  reachabilityDataStore,
		pruningPointManager:    pruningPointManager,
		pruningProofManager:    pruningProofManager,
		pruningStore:           pruningStore,
		pruningPointUTXOSet:    pruningPointUTXOSet,
		utxoDiffStore:          utxoDiffStore,
		blockStatusStore:       blockStatusStore,
		blockStore:             blockStore,
		blockHeaderStore:       blockHeaderStore,
		multisetStore:          multisetStore,
		acceptanceDataStore:    acceptanceDataStore,
		bodyTipsStore:          bodyTipsStore,
		selectedChainStore:     selectedChainStore,
		windowCacheInvalidator: windowCacheInvalidator,
		levels:                 levels,
		config:                 config,
		messages:               make(chan ProcessMessage),
	}
}

// Messages returns the channel callers send ProcessMessage values on. There
// is exactly one consumer: the goroutine running Run.
func (pp *PruningProcessor) Messages() chan<- ProcessMessage {
	return pp.messages
}

// Run is the processor's worker loop. It blocks until an Exit message
// arrives between sweeps; it never cancels a sweep already in progress.
func (pp *PruningProcessor) Run() error {
	for message := range pp.messages {
		if message.Exit {
			log.Infof("Pruning processor exiting")
			return nil
		}

		stats, err := pp.Process(message.SinkGHOSTDAGData)
		if err != nil {
			return errors.Wrap(err, "pruning processor sweep failed")
		}
		if stats.Advanced {
			log.Infof("Pruning point advanced. traversed: %d, deleted: %d",
				stats.Traversed, stats.Deleted)
		}
	}
	return nil
}

// Process runs one full pruning cycle for the given sink GHOSTDAG data:
// it first decides whether to advance the pruning point, and if it does,
// rolls the UTXO set forward, derives the keep sets, compacts relations,
// prunes tips and the selected chain, sweeps the reachability tree, and
// finally runs the sanity pass, in that order.
func (pp *PruningProcessor) Process(sinkGHOSTDAGData *externalapi.CompactGhostdagData) (SweepStats, error) {
	pp.deferredPruningPointCommit = nil
	advanced, newPruningPoint, err := pp.advancePruningPoint(sinkGHOSTDAGData)
	if err != nil {
		return SweepStats{}, err
	}
	if !advanced {
		return SweepStats{}, nil
	}

	if err := pp.rollUTXOSetForward(newPruningPoint); err != nil {
		return SweepStats{}, err
	}

	if pp.deferredPruningPointCommit != nil {
		if err := pp.deferredPruningPointCommit(); err != nil {
			return SweepStats{}, errors.Wrap(err, "failed committing deferred pruning point")
		}
		pp.deferredPruningPointCommit = nil
	}

	if pp.config.IsArchival {
		return SweepStats{Advanced: true}, nil
	}

	// Everything from here on walks and mutates the reachability tree and
	// the block stores it shares with ordinary block/virtual processing,
	// so it takes the consensus-wide pruning lock. advancePruningPoint and
	// rollUTXOSetForward above rely on the pruning-info store's own staging
	// instead, specifically so a long UTXO roll-forward never blocks those
	// other processors.
	unlock, err := pp.pruningLock.BlockingWrite(context.Background())
	if err != nil {
		return SweepStats{}, errors.Wrap(err, "failed acquiring pruning lock")
	}
	defer unlock()

	keepBlocks, keepRelations, err := pp.buildKeepSets(newPruningPoint)
	if err != nil {
		return SweepStats{}, err
	}

	if err := pp.compactRelations(keepRelations); err != nil {
		return SweepStats{}, err
	}

	if err := pp.pruneTipsAndSelectedChain(newPruningPoint); err != nil {
		return SweepStats{}, err
	}

	stats, err := pp.sweep(newPruningPoint, keepBlocks, keepRelations)
	if err != nil {
		return SweepStats{}, err
	}
	stats.Advanced = true

	if pp.config.EnableSanityChecks {
		if err := pp.verifySanity(newPruningPoint); err != nil {
			return SweepStats{}, err
		}
	}

	return stats, nil
}
