package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// BlockRelations holds a single block's parent and children hashes at one
// block level.
type BlockRelations struct {
	Parents  []*externalapi.DomainHash
	Children []*externalapi.DomainHash
}

// Clone returns a clone of BlockRelations
func (br *BlockRelations) Clone() *BlockRelations {
	if br == nil {
		return nil
	}
	return &BlockRelations{
		Parents:  externalapi.CloneHashes(br.Parents),
		Children: externalapi.CloneHashes(br.Children),
	}
}
