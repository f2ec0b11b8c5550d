// Package reachabilitymanager answers ancestry queries against the
// reachability tree (interval-containment for tree ancestry, a future
// covering set for the general DAG-ancestry fallback) and performs the tree
// surgery pruning needs when a block is excised.
package reachabilitymanager

import (
	"sort"

	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

type reachabilityManager struct {
	databaseContext       model.DBReader
	reachabilityDataStore model.ReachabilityDataStore
}

// New instantiates a new ReachabilityManager.
func New(databaseContext model.DBReader, reachabilityDataStore model.ReachabilityDataStore) model.ReachabilityManager {
	return &reachabilityManager{
		databaseContext:       databaseContext,
		reachabilityDataStore: reachabilityDataStore,
	}
}

// IsReachabilityTreeAncestorOf returns whether blockHashA is blockHashB's
// ancestor in the reachability tree proper, via interval containment.
func (rm *reachabilityManager) IsReachabilityTreeAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	if blockHashA.Equal(blockHashB) {
		return true, nil
	}

	dataA, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHashA)
	if err != nil {
		return false, err
	}
	dataB, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHashB)
	if err != nil {
		return false, err
	}

	return dataA.Interval.Start <= dataB.Interval.Start && dataB.Interval.End <= dataA.Interval.End, nil
}

// IsDAGAncestorOf returns whether blockHashA is an ancestor of blockHashB
// anywhere in the DAG, not just the reachability tree. It first tries the
// cheap tree-interval test, then falls back to blockHashA's future covering
// set: a set of tree nodes, sorted by interval, chosen at insertion time so
// that any DAG descendant of blockHashA is a tree descendant of one of them.
func (rm *reachabilityManager) IsDAGAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	isTreeAncestor, err := rm.IsReachabilityTreeAncestorOf(blockHashA, blockHashB)
	if err != nil {
		return false, err
	}
	if isTreeAncestor {
		return true, nil
	}

	dataA, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHashA)
	if err != nil {
		return false, err
	}
	dataB, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHashB)
	if err != nil {
		return false, err
	}

	candidate, found, err := rm.floorByInterval(dataA.FutureCoveringSet, dataB.Interval.Start)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	return rm.IsReachabilityTreeAncestorOf(candidate, blockHashB)
}

// floorByInterval returns the last entry of set (sorted ascending by
// interval start) whose interval starts at or before target.
func (rm *reachabilityManager) floorByInterval(set []*externalapi.DomainHash, target uint64) (*externalapi.DomainHash, bool, error) {
	if len(set) == 0 {
		return nil, false, nil
	}

	starts := make([]uint64, len(set))
	for i, hash := range set {
		data, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, hash)
		if err != nil {
			return nil, false, err
		}
		starts[i] = data.Interval.Start
	}

	index := sort.Search(len(starts), func(i int) bool { return starts[i] > target })
	if index == 0 {
		return nil, false, nil
	}
	return set[index-1], true, nil
}

// GetChildren returns blockHash's reachability tree children.
func (rm *reachabilityManager) GetChildren(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	data, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return data.Children, nil
}

// UpdateReindexRoot moves the tree's reindex root to newRoot and commits
// the change into dbTx.
func (rm *reachabilityManager) UpdateReindexRoot(dbTx model.DBTransaction, newRoot *externalapi.DomainHash) error {
	rm.reachabilityDataStore.StageReindexRoot(newRoot)
	return rm.reachabilityDataStore.Commit(dbTx)
}

// DeleteBlock excises blockHash from the reachability tree: its children
// are reparented onto its own tree parent (or ORIGIN, if blockHash was
// itself a root), and its own reachability entry is removed. Interval
// containment between the surviving ancestors and descendants stays valid
// without reindexing, since removing a node from the middle of a containment
// chain cannot widen or misalign any interval still in use. The staged
// changes are committed into dbTx before returning, so the reachability
// tree surgery lands in the same batch as the rest of the block's deletion
// rather than living only in the in-process staging maps.
func (rm *reachabilityManager) DeleteBlock(dbTx model.DBTransaction, blockHash *externalapi.DomainHash) error {
	data, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, blockHash)
	if err != nil {
		return err
	}

	newParent := data.Parent
	if newParent == nil {
		newParent = &externalapi.OriginHash
	}

	if !newParent.Equal(&externalapi.OriginHash) {
		parentData, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, newParent)
		if err != nil {
			return err
		}
		parentData.Children = replaceChild(parentData.Children, blockHash, data.Children)
		rm.reachabilityDataStore.StageReachabilityData(newParent, parentData)
	}

	for _, child := range data.Children {
		childData, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, child)
		if err != nil {
			return err
		}
		childData.Parent = newParent
		rm.reachabilityDataStore.StageReachabilityData(child, childData)
	}

	rm.reachabilityDataStore.Delete(blockHash)
	return rm.reachabilityDataStore.Commit(dbTx)
}

func replaceChild(children []*externalapi.DomainHash, removed *externalapi.DomainHash, replacements []*externalapi.DomainHash) []*externalapi.DomainHash {
	result := make([]*externalapi.DomainHash, 0, len(children)-1+len(replacements))
	for _, child := range children {
		if child.Equal(removed) {
			continue
		}
		result = append(result, child)
	}
	return append(result, replacements...)
}

// ForwardChainIterator walks the reachability tree from lowHash (exclusive)
// to highHash (inclusive), in ascending order. It is built by walking
// highHash's tree-parent chain down to lowHash and replaying it forward,
// since on the selected chain the tree parent coincides with the GHOSTDAG
// selected parent.
func (rm *reachabilityManager) ForwardChainIterator(lowHash, highHash *externalapi.DomainHash) (model.ForwardChainIterator, error) {
	var reversed []*externalapi.DomainHash

	current := highHash
	for !current.Equal(lowHash) {
		reversed = append(reversed, current)
		if current.Equal(&externalapi.OriginHash) {
			break
		}

		data, err := rm.reachabilityDataStore.ReachabilityData(rm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		current = data.Parent
	}

	chain := make([]*externalapi.DomainHash, len(reversed))
	for i, hash := range reversed {
		chain[len(reversed)-1-i] = hash
	}

	return &forwardChainIterator{chain: chain, index: -1}, nil
}

type forwardChainIterator struct {
	chain []*externalapi.DomainHash
	index int
}

func (it *forwardChainIterator) Next() bool {
	it.index++
	return it.index < len(it.chain)
}

func (it *forwardChainIterator) Get() (*externalapi.DomainHash, error) {
	return it.chain[it.index], nil
}

func (it *forwardChainIterator) Close() error {
	return nil
}
