package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// compactRelations rewrites every kept block's GHOSTDAG merge-set data so it
// only references other kept-relations blocks: MergeSetBlues, MergeSetReds,
// and BluesAnticoneSizes are filtered down to keepRelations members, and a
// SelectedParent that falls outside keepRelations is replaced with ORIGIN.
// A block missing its GHOSTDAG entry entirely is skipped rather than
// treated as an error, since the main traversal may not have visited it
// yet on this sweep.
func (pp *PruningProcessor) compactRelations(keepRelations map[externalapi.DomainHash]struct{}) error {
	for _, level := range pp.levels {
		tx, err := pp.databaseContext.Begin()
		if err != nil {
			return errors.Wrap(err, "failed opening transaction")
		}

		staged := false
		for hash := range keepRelations {
			hash := hash
			ghostdagData, err := level.GHOSTDAGDataStore.Get(pp.databaseContext, &hash)
			if err != nil {
				continue
			}

			compacted := compactGHOSTDAGData(ghostdagData, keepRelations)
			if compacted == ghostdagData {
				continue
			}
			level.GHOSTDAGDataStore.Stage(&hash, compacted)
			staged = true
		}

		if staged {
			if err := level.GHOSTDAGDataStore.Commit(tx); err != nil {
				tx.RollbackUnlessClosed()
				return errors.Wrap(err, "failed committing compacted GHOSTDAG data")
			}
			if err := tx.Commit(); err != nil {
				return errors.Wrap(err, "failed committing transaction")
			}
		} else {
			tx.RollbackUnlessClosed()
		}
	}
	return nil
}

// compactGHOSTDAGData returns ghostdagData unchanged if every reference it
// holds is already inside keepRelations, or a filtered clone otherwise.
func compactGHOSTDAGData(
	ghostdagData *externalapi.BlockGHOSTDAGData, keepRelations map[externalapi.DomainHash]struct{}) *externalapi.BlockGHOSTDAGData {

	selectedParent := ghostdagData.SelectedParent
	_, selectedParentKept := keepRelations[*selectedParent]

	blues, bluesChanged := filterKept(ghostdagData.MergeSetBlues, keepRelations)
	reds, redsChanged := filterKept(ghostdagData.MergeSetReds, keepRelations)

	if selectedParentKept && !bluesChanged && !redsChanged {
		return ghostdagData
	}

	if !selectedParentKept {
		selectedParent = &externalapi.OriginHash
	}

	anticoneSizes := make(map[externalapi.DomainHash]externalapi.KType, len(blues))
	for _, hash := range blues {
		if size, ok := ghostdagData.BluesAnticoneSizes[*hash]; ok {
			anticoneSizes[*hash] = size
		}
	}

	return externalapi.NewBlockGHOSTDAGData(
		ghostdagData.BlueScore, ghostdagData.BlueWork, selectedParent, blues, reds, anticoneSizes)
}

func filterKept(hashes []*externalapi.DomainHash, keepRelations map[externalapi.DomainHash]struct{}) ([]*externalapi.DomainHash, bool) {
	filtered := make([]*externalapi.DomainHash, 0, len(hashes))
	changed := false
	for _, hash := range hashes {
		if _, ok := keepRelations[*hash]; ok {
			filtered = append(filtered, hash)
		} else {
			changed = true
		}
	}
	return filtered, changed
}
