package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// ReachabilityInterval is a [Start, End) range assigned to a reachability
// tree node; a node A is a tree ancestor of B iff A's interval contains B's.
type ReachabilityInterval struct {
	Start uint64
	End   uint64
}

// ReachabilityData holds one block's position in the reachability tree: its
// interval label, tree parent and children, and the future covering set
// used to answer non-tree-ancestor queries.
type ReachabilityData struct {
	Interval          *ReachabilityInterval
	Parent            *externalapi.DomainHash
	Children          []*externalapi.DomainHash
	FutureCoveringSet []*externalapi.DomainHash
}

// Clone returns a clone of ReachabilityData
func (rd *ReachabilityData) Clone() *ReachabilityData {
	if rd == nil {
		return nil
	}
	var interval *ReachabilityInterval
	if rd.Interval != nil {
		intervalClone := *rd.Interval
		interval = &intervalClone
	}
	return &ReachabilityData{
		Interval:          interval,
		Parent:            rd.Parent.Clone(),
		Children:          externalapi.CloneHashes(rd.Children),
		FutureCoveringSet: externalapi.CloneHashes(rd.FutureCoveringSet),
	}
}
