// Package pruningmanager decides, given fresh GHOSTDAG data for the sink,
// how far the pruning point and its candidate should move. It is a pure
// decision collaborator: it reads GHOSTDAG data to walk the selected-parent
// chain backward from the sink, but it never stages or commits anything
// itself — the caller owns that.
package pruningmanager

import (
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

type pruningPointManager struct {
	databaseContext   model.DBReader
	ghostdagDataStore model.GHOSTDAGDataStore

	genesisHash      *externalapi.DomainHash
	pruningDepth     uint64
	finalityInterval uint64
}

// New instantiates a new PruningPointManager.
func New(
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	genesisHash *externalapi.DomainHash,
	pruningDepth uint64,
	finalityInterval uint64,
) model.PruningPointManager {

	return &pruningPointManager{
		databaseContext:   databaseContext,
		ghostdagDataStore: ghostdagDataStore,
		genesisHash:       genesisHash,
		pruningDepth:      pruningDepth,
		finalityInterval:  finalityInterval,
	}
}

// NextPruningPointsAndCandidateByGHOSTDAGData decides the new pruning point
// chain and candidate given the sink's compact GHOSTDAG data. It walks the
// selected-parent chain backward from the sink down to the current
// candidate (or overridePruningPoint, when the caller is importing a
// pruning point rather than advancing virtual's own chain), then replays
// that chain forward to find every block at least pruningDepth behind the
// sink, recording a new pruning point every time its finality score
// advances past the previous pruning point's.
func (pm *pruningPointManager) NextPruningPointsAndCandidateByGHOSTDAGData(
	sinkGHOSTDAGData *externalapi.CompactGhostdagData,
	overridePruningPoint *externalapi.DomainHash,
	currentCandidate *externalapi.DomainHash,
	currentPruningPoint *externalapi.DomainHash,
) (newPruningPoints []*externalapi.DomainHash, newCandidate *externalapi.DomainHash, err error) {

	chainFloor := currentCandidate
	if overridePruningPoint != nil {
		chainFloor = overridePruningPoint
	}

	chain, err := pm.selectedParentChainAbove(chainFloor, sinkGHOSTDAGData.SelectedParent)
	if err != nil {
		return nil, nil, err
	}

	currentPruningPointGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, currentPruningPoint)
	if err != nil {
		return nil, nil, err
	}

	newCandidate = chainFloor
	newCandidateBlueScore, err := pm.blueScoreOf(newCandidate)
	if err != nil {
		return nil, nil, err
	}

	lastPruningPointFinalityScore := pm.finalityScore(currentPruningPointGHOSTDAGData.BlueScore)

	for _, block := range chain {
		blockGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, block)
		if err != nil {
			return nil, nil, err
		}

		if sinkGHOSTDAGData.BlueScore-blockGHOSTDAGData.BlueScore < pm.pruningDepth {
			break
		}

		newCandidate = block
		newCandidateBlueScore = blockGHOSTDAGData.BlueScore

		if pm.finalityScore(newCandidateBlueScore) > lastPruningPointFinalityScore {
			lastPruningPointFinalityScore = pm.finalityScore(newCandidateBlueScore)
			newPruningPoints = append(newPruningPoints, block)
		}
	}

	return newPruningPoints, newCandidate, nil
}

// selectedParentChainAbove walks backward from high via SelectedParent
// pointers and returns the chain from (but excluding) low up to and
// including high, ordered from low's immediate selected child up to high.
func (pm *pruningPointManager) selectedParentChainAbove(low, high *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	var reversed []*externalapi.DomainHash

	current := high
	for {
		if current.Equal(low) {
			break
		}

		reversed = append(reversed, current)

		if current.Equal(pm.genesisHash) {
			break
		}

		currentGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		current = currentGHOSTDAGData.SelectedParent
	}

	chain := make([]*externalapi.DomainHash, len(reversed))
	for i, hash := range reversed {
		chain[len(reversed)-1-i] = hash
	}
	return chain, nil
}

func (pm *pruningPointManager) blueScoreOf(blockHash *externalapi.DomainHash) (uint64, error) {
	ghostdagData, err := pm.ghostdagDataStore.Get(pm.databaseContext, blockHash)
	if err != nil {
		return 0, err
	}
	return ghostdagData.BlueScore, nil
}

// finalityScore is the number of whole finality intervals contained in the
// given blue score.
func (pm *pruningPointManager) finalityScore(blueScore uint64) uint64 {
	return blueScore / pm.finalityInterval
}
