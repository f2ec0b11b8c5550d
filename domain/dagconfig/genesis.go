package dagconfig

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// genesisHash is the hash of the first block in the block DAG.
var genesisHash = externalapi.DomainHash{
	0x2a, 0xf7, 0x9a, 0xfb, 0x2c, 0xf7, 0xde, 0xe0,
	0xdf, 0xb3, 0x52, 0x4d, 0xbb, 0x3a, 0x83, 0x57,
	0xa6, 0xd2, 0x3e, 0x63, 0x51, 0x48, 0xb1, 0xf8,
	0xe7, 0x8b, 0xc7, 0x30, 0xed, 0x24, 0xe5, 0x80,
}

// genesisHeader is the header of the first block in the block DAG. Its
// UTXOCommitment is the hash of an empty MuHash multiset, matching an empty
// genesis UTXO set.
var genesisHeader = externalapi.DomainBlockHeader{
	Version:              0,
	ParentHashes:         []*externalapi.DomainHash{},
	HashMerkleRoot:       externalapi.DomainHash{},
	AcceptedIDMerkleRoot: externalapi.DomainHash{},
	UTXOCommitment:       externalapi.DomainHash{0x4b, 0xf5, 0x12, 0x2f, 0x34, 0x45, 0x54, 0xc5, 0x3b, 0xde, 0x2e, 0xbb, 0x8c, 0xd2, 0xb7, 0xe3, 0xd1, 0x60, 0x0a, 0xd6, 0x31, 0xc3, 0x85, 0xa5, 0xd7, 0xcc, 0xe2, 0x3c, 0x77, 0x85, 0x45, 0x9a},
	TimeInMilliseconds:   0x176a95cef33,
	Bits:                 0x207fffff,
	Nonce:                0x0,
}
