package pruningprocessor

import (
	"context"
	"time"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// sweep is the main traversal: a FIFO walk of the reachability tree
// starting at ORIGIN's children, deciding every visited block's fate
// against the keep sets buildKeepSets produced. It periodically releases
// the pruning lock so queued block/virtual processors are not starved by a
// single long-running sweep.
func (pp *PruningProcessor) sweep(
	newPruningPoint *externalapi.DomainHash,
	keepBlocks, keepRelations map[externalapi.DomainHash]struct{}) (SweepStats, error) {

	var stats SweepStats
	lastYield := time.Now()

	queue, err := pp.reachabilityManager.GetChildren(&externalapi.OriginHash)
	if err != nil {
		return stats, errors.Wrap(err, "failed reading ORIGIN's children")
	}

	for len(queue) > 0 {
		blockHash := queue[0]
		queue = queue[1:]
		stats.Traversed++

		isFuture, err := pp.reachabilityManager.IsDAGAncestorOf(newPruningPoint, blockHash)
		if err != nil {
			return stats, errors.Wrapf(err, "failed checking ancestry of %s", blockHash)
		}
		if isFuture {
			// blockHash is a descendant of the new pruning point: it and
			// everything beneath it is kept in full, nothing further to
			// prune along this branch.
			continue
		}

		children, err := pp.reachabilityManager.GetChildren(blockHash)
		if err != nil {
			return stats, errors.Wrapf(err, "failed reading children of %s", blockHash)
		}
		queue = append(queue, children...)

		if _, ok := keepBlocks[*blockHash]; ok {
			continue
		}

		if _, ok := keepRelations[*blockHash]; ok {
			if err := pp.demoteToHeaderOnly(blockHash); err != nil {
				return stats, errors.Wrapf(err, "failed demoting %s to header-only", blockHash)
			}
		} else {
			if err := pp.deleteBlock(blockHash); err != nil {
				return stats, errors.Wrapf(err, "failed deleting %s", blockHash)
			}
			stats.Deleted++
		}

		if time.Since(lastYield) >= pruneYieldBudget {
			if err := pp.pruningLock.BlockingYield(context.Background()); err != nil {
				return stats, errors.Wrap(err, "failed yielding pruning lock")
			}
			lastYield = time.Now()
		}
	}

	return stats, nil
}

// demoteToHeaderOnly strips a block's body and UTXO-related data while
// keeping its header, relations, and GHOSTDAG data intact, so the sanity
// pass's proof and trusted-data reconstruction can still walk through it.
func (pp *PruningProcessor) demoteToHeaderOnly(blockHash *externalapi.DomainHash) error {
	tx, err := pp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessClosed()

	pp.multisetStore.Delete(blockHash)
	pp.utxoDiffStore.Delete(blockHash)
	pp.acceptanceDataStore.Delete(blockHash)
	pp.blockStore.Delete(blockHash)
	pp.blockStatusStore.Stage(blockHash, externalapi.StatusHeaderOnly)
	pp.bodyTipsStore.StageRemove(blockHash)
	pp.windowCacheInvalidator.Invalidate(blockHash)

	if err := pp.multisetStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.utxoDiffStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.acceptanceDataStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.blockStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.blockStatusStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.bodyTipsStore.Commit(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteBlock removes every trace of a block: its body, header, status,
// GHOSTDAG data and relations at every level, and its reachability tree
// node. A missing GHOSTDAG entry at a given level is tolerated, since not
// every block is tracked at every level.
func (pp *PruningProcessor) deleteBlock(blockHash *externalapi.DomainHash) error {
	tx, err := pp.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessClosed()

	pp.multisetStore.Delete(blockHash)
	pp.utxoDiffStore.Delete(blockHash)
	pp.acceptanceDataStore.Delete(blockHash)
	pp.blockStore.Delete(blockHash)
	pp.blockStatusStore.Delete(blockHash)
	pp.blockHeaderStore.Delete(blockHash)
	pp.bodyTipsStore.StageRemove(blockHash)
	pp.windowCacheInvalidator.Invalidate(blockHash)

	for _, level := range pp.levels {
		level.GHOSTDAGDataStore.Delete(blockHash)
		level.BlockRelationStore.Delete(blockHash)
	}

	if err := pp.multisetStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.utxoDiffStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.acceptanceDataStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.blockStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.blockStatusStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.blockHeaderStore.Commit(tx); err != nil {
		return err
	}
	if err := pp.bodyTipsStore.Commit(tx); err != nil {
		return err
	}
	for _, level := range pp.levels {
		if err := level.GHOSTDAGDataStore.Commit(tx); err != nil {
			return err
		}
		if err := level.BlockRelationStore.Commit(tx); err != nil {
			return err
		}
	}
	if err := pp.reachabilityManager.DeleteBlock(tx, blockHash); err != nil {
		return err
	}

	return tx.Commit()
}
