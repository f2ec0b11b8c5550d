package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// UTXODiffStore represents a store of per-block UTXO diffs against that
// block's UTXO diff child, used to lazily roll a block's UTXO set forward
// from the nearest ancestor that already has one materialized.
type UTXODiffStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, utxoDiff *externalapi.UTXODiff, utxoDiffChild *externalapi.DomainHash)
	UTXODiff(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.UTXODiff, error)
	UTXODiffChild(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error)
	HasUTXODiffChild(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Delete(blockHash *externalapi.DomainHash)
}
