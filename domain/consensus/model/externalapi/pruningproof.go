package externalapi

// PruningPointProof is a vector of header chains, one per GHOSTDAG K level,
// proving the pruning point's place in the DAG to a syncing peer without
// shipping the full block history behind it.
type PruningPointProof [][]*DomainBlockHeader

// Clone returns a clone of PruningPointProof
func (proof PruningPointProof) Clone() PruningPointProof {
	if proof == nil {
		return nil
	}
	clone := make(PruningPointProof, len(proof))
	for i, headers := range proof {
		headersClone := make([]*DomainBlockHeader, len(headers))
		for j, header := range headers {
			headersClone[j] = header.Clone()
		}
		clone[i] = headersClone
	}
	return clone
}

// TrustedDataDataDAABlock is a single header belonging to a trusted block's
// difficulty-adjustment window, carried alongside the window itself so a
// syncing peer can verify DAA math without independently fetching ancestors.
type TrustedDataDataDAABlock struct {
	Header       *DomainBlockHeader
	GHOSTDAGData *BlockGHOSTDAGData
}

// TrustedDataDataGHOSTDAGData pairs a block hash with the GHOSTDAG data a
// peer should trust for it, since that data can't be recomputed locally
// without the pruned history.
type TrustedDataDataGHOSTDAGData struct {
	Hash         *DomainHash
	GHOSTDAGData *BlockGHOSTDAGData
}

// TrustedData is the bundle a node hands a syncing peer together with a
// pruning point proof: the anticone of the pruning point, its DAA window,
// and the GHOSTDAG data needed to validate both without full history.
type TrustedData struct {
	Anticone         []*DomainHash
	DAAWindowBlocks  []*TrustedDataDataDAABlock
	GHOSTDAGBlocks   []*TrustedDataDataGHOSTDAGData
}
