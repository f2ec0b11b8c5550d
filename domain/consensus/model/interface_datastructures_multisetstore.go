package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// MultisetStore represents a store of Multisets, one per block, used to
// hold the running UTXO commitment while the pruning point advances.
type MultisetStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, multiset Multiset)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (Multiset, error)
	Delete(blockHash *externalapi.DomainHash)
}
