package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// BodyTipsStore represents the set of hashes that are leaves of the
// body-having (block, not just header) sub-DAG.
type BodyTipsStore interface {
	Store
	StageAdd(blockHash *externalapi.DomainHash)
	StageRemove(blockHash *externalapi.DomainHash)
	Tips(dbContext DBReader) ([]*externalapi.DomainHash, error)
}
