package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// PruningProofManager owns the pruning-point proof and trusted-anticone
// construction algorithms. The pruning processor only ever calls it; it
// never reimplements proof or trusted-data construction itself.
type PruningProofManager interface {
	GetPruningPointProof() (externalapi.PruningPointProof, error)
	GetPruningPointAnticoneAndTrustedData() (*externalapi.TrustedData, error)
	BuildPruningPointProof(pruningPointHash *externalapi.DomainHash) (externalapi.PruningPointProof, error)
	CalculatePruningPointAnticoneAndTrustedData(
		pruningPointHash *externalapi.DomainHash, virtualParents []*externalapi.DomainHash) (*externalapi.TrustedData, error)
}
