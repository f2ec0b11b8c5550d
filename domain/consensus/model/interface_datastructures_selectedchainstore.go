package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// SelectedChainStore represents a bijection between chain heights and
// hashes along the virtual selected chain, kept consistent as the pruning
// processor trims the chain's tail.
type SelectedChainStore interface {
	Store
	StageAddChainBlock(blockHash *externalapi.DomainHash, chainBlockIndex uint64)
	StageRemoveChainBlockIndexBelow(chainBlockIndex uint64)
	GetHashByIndex(dbContext DBReader, chainBlockIndex uint64) (*externalapi.DomainHash, error)
	GetIndexByHash(dbContext DBReader, blockHash *externalapi.DomainHash) (uint64, error)
	HighestIndex(dbContext DBReader) (uint64, error)
}
