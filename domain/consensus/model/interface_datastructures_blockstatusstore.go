package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// BlockStatusStore represents a store of BlockStatuses. A block that has
// been fully pruned has no entry here at all.
type BlockStatusStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, status externalapi.BlockStatus)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error)
	Exists(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Delete(blockHash *externalapi.DomainHash)
}
