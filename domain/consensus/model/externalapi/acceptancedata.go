package externalapi

// BlockAcceptanceData holds, for a single block, the set of transaction
// acceptance outcomes accepted blocks contributed to it. The pruning
// processor treats every block's acceptance data as an opaque unit: it is
// either fully present for a kept block or fully absent for a pruned one.
type BlockAcceptanceData struct {
	BlockHash                 DomainHash
	TransactionAcceptanceData []TransactionAcceptanceData
}

// TransactionAcceptanceData holds a transaction and whether it was accepted
type TransactionAcceptanceData struct {
	TransactionID DomainHash
	IsAccepted    bool
	Fee           uint64
}

// AcceptanceData holds the acceptance data for all the blocks accepted by a block
type AcceptanceData []*BlockAcceptanceData

// Clone returns a clone of AcceptanceData
func (ad AcceptanceData) Clone() AcceptanceData {
	if ad == nil {
		return nil
	}

	clone := make(AcceptanceData, len(ad))
	for i, blockAcceptanceData := range ad {
		transactionAcceptanceData := make([]TransactionAcceptanceData, len(blockAcceptanceData.TransactionAcceptanceData))
		copy(transactionAcceptanceData, blockAcceptanceData.TransactionAcceptanceData)
		clone[i] = &BlockAcceptanceData{
			BlockHash:                 blockAcceptanceData.BlockHash,
			TransactionAcceptanceData: transactionAcceptanceData,
		}
	}
	return clone
}
