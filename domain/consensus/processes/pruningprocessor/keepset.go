package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// buildKeepSets derives the two block sets the main traversal decides every
// visited block's fate against:
//
//   - keepBlocks: bodies and UTXO-related data survive intact. This is the
//     new pruning point itself plus its trusted anticone.
//   - keepRelations: relations and headers survive, bodies do not. This is
//     keepBlocks plus every block on the selected-parent chain behind the
//     proof, plus every block the trusted DAA window and trusted GHOSTDAG
//     data reference by hash — a syncing peer is handed those hashes
//     alongside the proof, so their relations and headers must still be
//     resolvable even though their bodies are gone.
//
// It asserts the two invariants a meaningful keep set depends on: the
// trusted anticone's head is newPruningPoint itself, and the proof's chain
// bottoms out at genesis.
func (pp *PruningProcessor) buildKeepSets(newPruningPoint *externalapi.DomainHash) (keepBlocks, keepRelations map[externalapi.DomainHash]struct{}, err error) {
	chain, err := pp.selectedParentChainTo(newPruningPoint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed walking selected parent chain for pruning proof")
	}
	if len(chain) == 0 || !chain[0].Equal(pp.config.GenesisHash) {
		return nil, nil, errors.New("pruning point proof does not reach genesis")
	}

	virtualParents, err := pp.currentVirtualParents()
	if err != nil {
		return nil, nil, err
	}
	trustedData, err := pp.pruningProofManager.CalculatePruningPointAnticoneAndTrustedData(newPruningPoint, virtualParents)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed computing trusted anticone data")
	}
	if len(trustedData.Anticone) == 0 || !trustedData.Anticone[0].Equal(newPruningPoint) {
		return nil, nil, errors.New("trusted anticone does not start with the new pruning point")
	}

	keepBlocks = make(map[externalapi.DomainHash]struct{}, len(trustedData.Anticone))
	for _, hash := range trustedData.Anticone {
		keepBlocks[*hash] = struct{}{}
	}

	keepRelations = make(map[externalapi.DomainHash]struct{},
		len(keepBlocks)+len(chain)+len(trustedData.DAAWindowBlocks)+len(trustedData.GHOSTDAGBlocks))
	for hash := range keepBlocks {
		keepRelations[hash] = struct{}{}
	}
	for _, hash := range chain {
		keepRelations[*hash] = struct{}{}
	}
	for _, daaBlock := range trustedData.DAAWindowBlocks {
		keepRelations[*daaBlock.Header.Hash()] = struct{}{}
	}
	for _, ghostdagBlock := range trustedData.GHOSTDAGBlocks {
		keepRelations[*ghostdagBlock.Hash] = struct{}{}
	}

	return keepBlocks, keepRelations, nil
}

// selectedParentChainTo walks level 0's GHOSTDAG selected-parent chain from
// highHash down to genesis, returned in ascending (genesis-first) order.
// Grounded in the same chain-walk the pruning-point proof manager performs
// internally, repeated here because buildKeepSets needs the hashes
// themselves rather than the headers BuildPruningPointProof returns.
func (pp *PruningProcessor) selectedParentChainTo(highHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	if len(pp.levels) == 0 {
		return nil, errors.New("no GHOSTDAG data store levels configured")
	}
	ghostdagDataStore := pp.levels[0].GHOSTDAGDataStore

	var reversed []*externalapi.DomainHash
	current := highHash
	for {
		reversed = append(reversed, current)
		if current.Equal(pp.config.GenesisHash) {
			break
		}
		ghostdagData, err := ghostdagDataStore.Get(pp.databaseContext, current)
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

func (pp *PruningProcessor) currentVirtualParents() ([]*externalapi.DomainHash, error) {
	tips, err := pp.bodyTipsStore.Tips(pp.databaseContext)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading body tips")
	}
	return tips, nil
}
