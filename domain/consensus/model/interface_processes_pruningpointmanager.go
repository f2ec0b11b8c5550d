package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// PruningPointManager is a pure decision collaborator: given fresh sink
// GHOSTDAG data and the current pruning frontier, it decides how far the
// pruning point and its candidate should move. It never touches a store
// itself; the caller commits whatever it returns.
type PruningPointManager interface {
	NextPruningPointsAndCandidateByGHOSTDAGData(
		sinkGHOSTDAGData *externalapi.CompactGhostdagData,
		overridePruningPoint *externalapi.DomainHash,
		currentCandidate *externalapi.DomainHash,
		currentPruningPoint *externalapi.DomainHash,
	) (newPruningPoints []*externalapi.DomainHash, newCandidate *externalapi.DomainHash, err error)
}
