package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// pruneTipsAndSelectedChain retires body tips that no longer descend from
// the new pruning point, and trims the selected-chain index below the new
// pruning point's own chain position, since neither is reachable from a
// future sweep once the blocks behind them are gone.
func (pp *PruningProcessor) pruneTipsAndSelectedChain(newPruningPoint *externalapi.DomainHash) error {
	tips, err := pp.bodyTipsStore.Tips(pp.databaseContext)
	if err != nil {
		return errors.Wrap(err, "failed reading body tips")
	}

	tx, err := pp.databaseContext.Begin()
	if err != nil {
		return errors.Wrap(err, "failed opening transaction")
	}
	defer tx.RollbackUnlessClosed()

	staged := false
	for _, tip := range tips {
		if tip.Equal(newPruningPoint) {
			continue
		}
		isDescendant, err := pp.reachabilityManager.IsDAGAncestorOf(newPruningPoint, tip)
		if err != nil {
			return errors.Wrapf(err, "failed checking ancestry of tip %s", tip)
		}
		if !isDescendant {
			pp.bodyTipsStore.StageRemove(tip)
			staged = true
		}
	}

	newPruningPointIndex, err := pp.selectedChainStore.GetIndexByHash(pp.databaseContext, newPruningPoint)
	if err == nil {
		pp.selectedChainStore.StageRemoveChainBlockIndexBelow(newPruningPointIndex)
		staged = true
	}

	if !staged {
		return nil
	}

	if err := pp.bodyTipsStore.Commit(tx); err != nil {
		return errors.Wrap(err, "failed committing body tips")
	}
	if err := pp.selectedChainStore.Commit(tx); err != nil {
		return errors.Wrap(err, "failed committing selected chain store")
	}
	return tx.Commit()
}
