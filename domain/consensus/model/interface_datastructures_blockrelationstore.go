package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// BlockRelationStore represents a store of BlockRelations at a single block
// level. The storage facade holds one instance per level.
type BlockRelationStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, relations *BlockRelations)
	BlockRelation(dbContext DBReader, blockHash *externalapi.DomainHash) (*BlockRelations, error)
	Has(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Delete(blockHash *externalapi.DomainHash)
}
