package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// GHOSTDAGDataStore represents a store of BlockGHOSTDAGData at a single
// block level. The storage facade holds one instance per level.
type GHOSTDAGDataStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, blockGHOSTDAGData *externalapi.BlockGHOSTDAGData)
	Get(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error)
	Delete(blockHash *externalapi.DomainHash)
}
