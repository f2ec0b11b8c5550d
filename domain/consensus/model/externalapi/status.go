package externalapi

// BlockStatus represents the validation state of a block.
type BlockStatus byte

// The following are the full set of statuses a block can carry. A pruned
// block has no status entry at all.
const (
	StatusInvalid BlockStatus = iota
	StatusUTXOPendingVerification
	StatusUTXOValid
	StatusDisqualifiedFromChain
	// StatusHeaderOnly marks a block that survives pruning in keep_relations
	// but not in keep_blocks: its header and relations are retained, but its
	// body and UTXO-related data are gone.
	StatusHeaderOnly
)

func (status BlockStatus) String() string {
	switch status {
	case StatusInvalid:
		return "StatusInvalid"
	case StatusUTXOPendingVerification:
		return "StatusUTXOPendingVerification"
	case StatusUTXOValid:
		return "StatusUTXOValid"
	case StatusDisqualifiedFromChain:
		return "StatusDisqualifiedFromChain"
	case StatusHeaderOnly:
		return "StatusHeaderOnly"
	}
	return "<unknown status>"
}
