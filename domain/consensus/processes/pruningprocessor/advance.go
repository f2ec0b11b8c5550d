package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// advancePruningPoint runs the pruning-point manager against fresh sink
// GHOSTDAG data and commits whatever it decides. When sanity checking is
// disabled the new pruning-point info is committed immediately, matching
// the original consensus engine's behaviour. When sanity checking is
// enabled, the commit is deferred: advancePruningPoint stages the decision
// in memory and the caller (Process) only flushes it to the database after
// the UTXO roll-forward's commitment check has passed, so a bad sweep never
// leaves a committed pruning point whose UTXO set doesn't match its header.
func (pp *PruningProcessor) advancePruningPoint(
	sinkGHOSTDAGData *externalapi.CompactGhostdagData) (advanced bool, newPruningPoint *externalapi.DomainHash, err error) {

	info, err := pp.pruningStore.PruningPointInfo(pp.databaseContext)
	if err != nil {
		return false, nil, errors.Wrap(err, "failed reading pruning point info")
	}

	newPruningPoints, newCandidate, err := pp.pruningPointManager.NextPruningPointsAndCandidateByGHOSTDAGData(
		sinkGHOSTDAGData, nil, info.Candidate, info.PruningPoint)
	if err != nil {
		return false, nil, errors.Wrap(err, "failed deciding next pruning point")
	}

	if len(newPruningPoints) == 0 {
		if newCandidate.Equal(info.Candidate) {
			return false, nil, nil
		}
		return pp.commitCandidateOnly(info, newCandidate)
	}

	newPruningPoint = newPruningPoints[len(newPruningPoints)-1]

	commit := func() error {
		tx, err := pp.databaseContext.Begin()
		if err != nil {
			return err
		}
		defer tx.RollbackUnlessClosed()

		for i, pastPoint := range newPruningPoints {
			pp.pruningStore.StagePastPruningPoint(info.Index+1+uint64(i), pastPoint)
		}
		pp.pruningStore.StagePruningPointInfo(&externalapi.PruningPointInfo{
			PruningPoint: newPruningPoint,
			Candidate:    newCandidate,
			Index:        info.Index + uint64(len(newPruningPoints)),
		})

		if err := pp.pruningStore.Commit(tx); err != nil {
			return err
		}
		return tx.Commit()
	}

	if !pp.config.EnableSanityChecks {
		if err := commit(); err != nil {
			return false, nil, errors.Wrap(err, "failed committing new pruning point")
		}
		return true, newPruningPoint, nil
	}

	pp.deferredPruningPointCommit = commit
	return true, newPruningPoint, nil
}

func (pp *PruningProcessor) commitCandidateOnly(
	info *externalapi.PruningPointInfo, newCandidate *externalapi.DomainHash) (bool, *externalapi.DomainHash, error) {

	tx, err := pp.databaseContext.Begin()
	if err != nil {
		return false, nil, errors.Wrap(err, "failed opening transaction")
	}
	defer tx.RollbackUnlessClosed()

	pp.pruningStore.StagePruningPointInfo(&externalapi.PruningPointInfo{
		PruningPoint: info.PruningPoint,
		Candidate:    newCandidate,
		Index:        info.Index,
	})
	if err := pp.pruningStore.Commit(tx); err != nil {
		return false, nil, errors.Wrap(err, "failed committing new pruning candidate")
	}
	if err := tx.Commit(); err != nil {
		return false, nil, errors.Wrap(err, "failed committing transaction")
	}
	return false, nil, nil
}
