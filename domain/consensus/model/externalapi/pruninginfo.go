package externalapi

// PruningPointInfo is the singleton record tracking where the pruning
// frontier currently sits: the active pruning point, the next candidate
// being tracked towards finality, and the index of the active pruning
// point among the past pruning points.
type PruningPointInfo struct {
	PruningPoint *DomainHash
	Candidate    *DomainHash
	Index        uint64
}

// Clone returns a clone of PruningPointInfo
func (ppi *PruningPointInfo) Clone() *PruningPointInfo {
	if ppi == nil {
		return nil
	}
	return &PruningPointInfo{
		PruningPoint: ppi.PruningPoint.Clone(),
		Candidate:    ppi.Candidate.Clone(),
		Index:        ppi.Index,
	}
}
