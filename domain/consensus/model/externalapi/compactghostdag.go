package externalapi

// CompactGhostdagData is the slice of a block's GHOSTDAG data that crosses
// the boundary from the virtual processor to the pruning processor: enough
// to decide whether the pruning point should advance, nothing else.
type CompactGhostdagData struct {
	BlueScore     uint64
	BlueWork      BlueWork
	SelectedParent *DomainHash
}

// Clone returns a clone of CompactGhostdagData
func (gd *CompactGhostdagData) Clone() *CompactGhostdagData {
	if gd == nil {
		return nil
	}
	return &CompactGhostdagData{
		BlueScore:      gd.BlueScore,
		BlueWork:       gd.BlueWork.Clone(),
		SelectedParent: gd.SelectedParent.Clone(),
	}
}
