package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// ReachabilityManager answers ancestry queries against the reachability
// tree and performs the tree mutations pruning requires: reparenting a
// subtree's root to ORIGIN when its real parent is deleted, and removing a
// deleted block's own node from the tree.
type ReachabilityManager interface {
	IsDAGAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsReachabilityTreeAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	ForwardChainIterator(lowHash, highHash *externalapi.DomainHash) (ForwardChainIterator, error)
	GetChildren(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	// DeleteBlock excises blockHash from the reachability tree and commits
	// the resulting staged changes into dbTx, so the deletion lands in the
	// same batch as the rest of the block's removal.
	DeleteBlock(dbTx DBTransaction, blockHash *externalapi.DomainHash) error
	// UpdateReindexRoot moves the tree's reindex root to newRoot and
	// commits the change into dbTx.
	UpdateReindexRoot(dbTx DBTransaction, newRoot *externalapi.DomainHash) error
}

// ForwardChainIterator walks the selected chain from low (exclusive) to
// high (inclusive) in ascending order.
type ForwardChainIterator interface {
	Next() bool
	Get() (*externalapi.DomainHash, error)
	Close() error
}
