package externalapi

// BlockGHOSTDAGData holds a block's full GHOSTDAG output: its selected
// parent, the blues and reds of its merge set, the per-blue anticone sizes
// needed to verify the k-cluster property, and the resulting blue score and
// blue work.
type BlockGHOSTDAGData struct {
	BlueScore          uint64
	BlueWork           BlueWork
	SelectedParent     *DomainHash
	MergeSetBlues      []*DomainHash
	MergeSetReds       []*DomainHash
	BluesAnticoneSizes map[DomainHash]KType
}

// KType is the type of the K parameter of the GHOSTDAG algorithm
type KType uint8

// NewBlockGHOSTDAGData creates a new instance of BlockGHOSTDAGData
func NewBlockGHOSTDAGData(blueScore uint64, blueWork BlueWork, selectedParent *DomainHash,
	mergeSetBlues, mergeSetReds []*DomainHash, bluesAnticoneSizes map[DomainHash]KType) *BlockGHOSTDAGData {

	return &BlockGHOSTDAGData{
		BlueScore:          blueScore,
		BlueWork:           blueWork,
		SelectedParent:     selectedParent,
		MergeSetBlues:      mergeSetBlues,
		MergeSetReds:       mergeSetReds,
		BluesAnticoneSizes: bluesAnticoneSizes,
	}
}

// ToCompact returns the CompactGhostdagData slice of this BlockGHOSTDAGData
func (gd *BlockGHOSTDAGData) ToCompact() *CompactGhostdagData {
	return &CompactGhostdagData{
		BlueScore:      gd.BlueScore,
		BlueWork:       gd.BlueWork.Clone(),
		SelectedParent: gd.SelectedParent.Clone(),
	}
}

// Clone returns a clone of BlockGHOSTDAGData
func (gd *BlockGHOSTDAGData) Clone() *BlockGHOSTDAGData {
	if gd == nil {
		return nil
	}

	mergeSetBlues := make([]*DomainHash, len(gd.MergeSetBlues))
	for i, hash := range gd.MergeSetBlues {
		mergeSetBlues[i] = hash.Clone()
	}

	mergeSetReds := make([]*DomainHash, len(gd.MergeSetReds))
	for i, hash := range gd.MergeSetReds {
		mergeSetReds[i] = hash.Clone()
	}

	bluesAnticoneSizes := make(map[DomainHash]KType, len(gd.BluesAnticoneSizes))
	for hash, size := range gd.BluesAnticoneSizes {
		bluesAnticoneSizes[hash] = size
	}

	return &BlockGHOSTDAGData{
		BlueScore:          gd.BlueScore,
		BlueWork:           gd.BlueWork.Clone(),
		SelectedParent:     gd.SelectedParent.Clone(),
		MergeSetBlues:      mergeSetBlues,
		MergeSetReds:       mergeSetReds,
		BluesAnticoneSizes: bluesAnticoneSizes,
	}
}
