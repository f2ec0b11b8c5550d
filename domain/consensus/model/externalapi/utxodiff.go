package externalapi

// UTXODiff represents a diff between two UTXO sets: the set of outpoints
// added and the set of outpoints removed. The pruning processor never
// interprets a diff's contents, it only applies one or deletes one wholesale.
type UTXODiff struct {
	ToAdd    []*OutpointAndUTXOEntryPair
	ToRemove []*DomainOutpoint
}

// OutpointAndUTXOEntryPair is an outpoint along with its respective UTXO entry
type OutpointAndUTXOEntryPair struct {
	Outpoint  *DomainOutpoint
	UTXOEntry *UTXOEntry
}

// NewUTXODiff creates an empty UTXODiff
func NewUTXODiff() *UTXODiff {
	return &UTXODiff{}
}

// Clone returns a clone of UTXODiff
func (diff *UTXODiff) Clone() *UTXODiff {
	if diff == nil {
		return nil
	}

	toAdd := make([]*OutpointAndUTXOEntryPair, len(diff.ToAdd))
	for i, pair := range diff.ToAdd {
		toAdd[i] = &OutpointAndUTXOEntryPair{Outpoint: pair.Outpoint.Clone(), UTXOEntry: pair.UTXOEntry.Clone()}
	}

	toRemove := make([]*DomainOutpoint, len(diff.ToRemove))
	for i, outpoint := range diff.ToRemove {
		toRemove[i] = outpoint.Clone()
	}

	return &UTXODiff{ToAdd: toAdd, ToRemove: toRemove}
}
