package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// ReachabilityDataStore represents a store of ReachabilityData, plus the
// single reindex-root pointer the reachability tree maintains globally.
type ReachabilityDataStore interface {
	Store
	StageReachabilityData(blockHash *externalapi.DomainHash, reachabilityData *ReachabilityData)
	StageReindexRoot(root *externalapi.DomainHash)
	ReachabilityData(dbContext DBReader, blockHash *externalapi.DomainHash) (*ReachabilityData, error)
	HasReachabilityData(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	ReindexRoot(dbContext DBReader) (*externalapi.DomainHash, error)
	Delete(blockHash *externalapi.DomainHash)
}
