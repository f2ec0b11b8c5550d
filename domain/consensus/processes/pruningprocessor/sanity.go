package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// verifySanity is the sanity pass: it rebuilds the pruning point proof and
// trusted anticone data from the post-sweep database state and
// compares them against a fresh build, catching any divergence the
// traversal introduced between what the proof promises and what the
// database actually retains. Mismatches here are unrecoverable: a pruning
// sweep that silently corrupts its own proof cannot be trusted to serve
// syncing peers.
func (pp *PruningProcessor) verifySanity(newPruningPoint *externalapi.DomainHash) error {
	rebuiltProof, err := pp.pruningProofManager.BuildPruningPointProof(newPruningPoint)
	if err != nil {
		return errors.Wrap(err, "failed rebuilding pruning point proof for sanity check")
	}
	referenceProof, err := pp.pruningProofManager.GetPruningPointProof()
	if err != nil {
		return errors.Wrap(err, "failed fetching reference pruning point proof for sanity check")
	}
	if !proofsEqual(rebuiltProof, referenceProof) {
		return ruleerrors.ErrProofMismatch
	}

	virtualParents, err := pp.currentVirtualParents()
	if err != nil {
		return err
	}
	rebuiltTrustedData, err := pp.pruningProofManager.CalculatePruningPointAnticoneAndTrustedData(newPruningPoint, virtualParents)
	if err != nil {
		return errors.Wrap(err, "failed rebuilding trusted data for sanity check")
	}
	referenceTrustedData, err := pp.pruningProofManager.GetPruningPointAnticoneAndTrustedData()
	if err != nil {
		return errors.Wrap(err, "failed fetching reference trusted data for sanity check")
	}
	if !trustedDataEqual(rebuiltTrustedData, referenceTrustedData) {
		return ruleerrors.ErrTrustedDataMismatch
	}

	return nil
}

// proofsEqual compares two pruning point proofs by flattening each level's
// chain of headers to its sequence of identity hashes and comparing those
// element-by-element. Comparing any other field (e.g. PruningPoint) would
// pass for two distinct headers that merely happen to declare the same
// value, which many unrelated blocks do.
func proofsEqual(a, b externalapi.PruningPointProof) bool {
	if len(a) != len(b) {
		return false
	}
	for level := range a {
		if len(a[level]) != len(b[level]) {
			return false
		}
		for i := range a[level] {
			if !a[level][i].Hash().Equal(b[level][i].Hash()) {
				return false
			}
		}
	}
	return true
}

func trustedDataEqual(a, b *externalapi.TrustedData) bool {
	if !hashSetsEqual(a.Anticone, b.Anticone) {
		return false
	}
	if len(a.GHOSTDAGBlocks) != len(b.GHOSTDAGBlocks) {
		return false
	}
	if len(a.DAAWindowBlocks) != len(b.DAAWindowBlocks) {
		return false
	}
	return true
}

func hashSetsEqual(a, b []*externalapi.DomainHash) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[externalapi.DomainHash]struct{}, len(a))
	for _, hash := range a {
		set[*hash] = struct{}{}
	}
	for _, hash := range b {
		if _, ok := set[*hash]; !ok {
			return false
		}
	}
	return true
}
