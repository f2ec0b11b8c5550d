// Package pruningproofmanager builds the pruning-point proof and trusted
// anticone data a node hands a syncing peer, and recomputes them on demand
// so the pruning processor's sanity pass (C9) can compare a rebuild for the
// new pruning point against one for the currently recorded pruning point. The
// proof-construction algorithm itself (the real multi-level superblock
// scheme) belongs to the block/header processors this module doesn't carry;
// here it is stood in by a single-level selected-parent chain, replicated
// across levels, which is enough to exercise the pruning processor's own
// contract with this collaborator.
package pruningproofmanager

import (
	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/ruleerrors"
)

type pruningProofManager struct {
	databaseContext   model.DBReader
	blockHeaderStore  model.BlockHeaderStore
	ghostdagDataStore model.GHOSTDAGDataStore
	pruningStore      model.PruningStore

	genesisHash  *externalapi.DomainHash
	proofLevels  int
	pruningDepth uint64

	virtualParents func() ([]*externalapi.DomainHash, error)
}

// New instantiates a new PruningProofManager. virtualParents supplies the
// current virtual block's direct parents, a seam into the virtual processor
// this module does not otherwise depend on.
func New(
	databaseContext model.DBReader,
	blockHeaderStore model.BlockHeaderStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	pruningStore model.PruningStore,
	genesisHash *externalapi.DomainHash,
	proofLevels int,
	pruningDepth uint64,
	virtualParents func() ([]*externalapi.DomainHash, error),
) model.PruningProofManager {

	return &pruningProofManager{
		databaseContext:   databaseContext,
		blockHeaderStore:  blockHeaderStore,
		ghostdagDataStore: ghostdagDataStore,
		pruningStore:      pruningStore,
		genesisHash:       genesisHash,
		proofLevels:       proofLevels,
		pruningDepth:      pruningDepth,
		virtualParents:    virtualParents,
	}
}

// GetPruningPointProof builds the proof for the currently recorded pruning
// point.
func (pm *pruningProofManager) GetPruningPointProof() (externalapi.PruningPointProof, error) {
	info, err := pm.pruningStore.PruningPointInfo(pm.databaseContext)
	if err != nil {
		return nil, err
	}
	return pm.BuildPruningPointProof(info.PruningPoint)
}

// BuildPruningPointProof rebuilds the proof for an arbitrary hash, used
// both to advance the pruning point and, afterwards, to verify the result.
func (pm *pruningProofManager) BuildPruningPointProof(pruningPointHash *externalapi.DomainHash) (externalapi.PruningPointProof, error) {
	chain, err := pm.selectedParentChain(pruningPointHash)
	if err != nil {
		return nil, err
	}
	if uint64(len(chain)) < pm.pruningDepth && !chain[0].Equal(pm.genesisHash) {
		return nil, ruleerrors.ErrInsufficientDepth
	}

	headers := make([]*externalapi.DomainBlockHeader, len(chain))
	for i, hash := range chain {
		header, err := pm.blockHeaderStore.BlockHeader(pm.databaseContext, hash)
		if err != nil {
			return nil, err
		}
		headers[i] = header
	}

	proof := make(externalapi.PruningPointProof, pm.proofLevels)
	for level := range proof {
		proof[level] = headers
	}
	return proof, nil
}

// GetPruningPointAnticoneAndTrustedData computes trusted data for the
// currently recorded pruning point against the live virtual parents.
func (pm *pruningProofManager) GetPruningPointAnticoneAndTrustedData() (*externalapi.TrustedData, error) {
	info, err := pm.pruningStore.PruningPointInfo(pm.databaseContext)
	if err != nil {
		return nil, err
	}
	virtualParents, err := pm.virtualParents()
	if err != nil {
		return nil, err
	}
	return pm.CalculatePruningPointAnticoneAndTrustedData(info.PruningPoint, virtualParents)
}

// CalculatePruningPointAnticoneAndTrustedData walks back from virtualParents
// through GHOSTDAG merge sets (selected parents are not followed), collecting
// every block that does not have pruningPointHash on its selected-parent
// chain and stopping at blocks that do. Blocks in pruningPointHash's past
// that the walk reaches are collected too. The pruning point itself always
// heads the returned anticone.
func (pm *pruningProofManager) CalculatePruningPointAnticoneAndTrustedData(
	pruningPointHash *externalapi.DomainHash, virtualParents []*externalapi.DomainHash) (*externalapi.TrustedData, error) {

	anticone := []*externalapi.DomainHash{pruningPointHash}
	visited := map[externalapi.DomainHash]struct{}{*pruningPointHash: {}}

	var daaWindowBlocks []*externalapi.TrustedDataDataDAABlock
	var ghostdagBlocks []*externalapi.TrustedDataDataGHOSTDAGData

	queue := append([]*externalapi.DomainHash{}, virtualParents...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		isChainDescendantOfPruningPoint, err := pm.isInSelectedParentChain(pruningPointHash, current)
		if err != nil {
			return nil, err
		}
		if isChainDescendantOfPruningPoint {
			continue
		}

		anticone = append(anticone, current)

		ghostdagData, err := pm.ghostdagDataStore.Get(pm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		ghostdagBlocks = append(ghostdagBlocks, &externalapi.TrustedDataDataGHOSTDAGData{
			Hash:         current,
			GHOSTDAGData: ghostdagData,
		})

		header, err := pm.blockHeaderStore.BlockHeader(pm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		daaWindowBlocks = append(daaWindowBlocks, &externalapi.TrustedDataDataDAABlock{
			Header:       header,
			GHOSTDAGData: ghostdagData,
		})

		queue = append(queue, ghostdagData.MergeSetBlues...)
		queue = append(queue, ghostdagData.MergeSetReds...)
	}

	return &externalapi.TrustedData{
		Anticone:        anticone,
		DAAWindowBlocks: daaWindowBlocks,
		GHOSTDAGBlocks:  ghostdagBlocks,
	}, nil
}

// isInSelectedParentChain reports whether ancestor lies on candidate's
// selected-parent chain (candidate itself included), used here instead of a
// full reachability query so
// this package stays independent of the reachability manager's staging
// overlay.
func (pm *pruningProofManager) isInSelectedParentChain(ancestor, candidate *externalapi.DomainHash) (bool, error) {
	current := candidate
	for {
		if current.Equal(ancestor) {
			return true, nil
		}
		if current.Equal(pm.genesisHash) || externalapi.IsOrigin(current) {
			return false, nil
		}
		ghostdagData, err := pm.ghostdagDataStore.Get(pm.databaseContext, current)
		if err != nil {
			return false, err
		}
		current = ghostdagData.SelectedParent
	}
}

func (pm *pruningProofManager) selectedParentChain(highHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	var reversed []*externalapi.DomainHash

	current := highHash
	for {
		reversed = append(reversed, current)
		if current.Equal(pm.genesisHash) {
			break
		}

		ghostdagData, err := pm.ghostdagDataStore.Get(pm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		current = ghostdagData.SelectedParent
	}

	chain := make([]*externalapi.DomainHash, len(reversed))
	for i, hash := range reversed {
		chain[len(reversed)-1-i] = hash
	}
	return chain, nil
}
