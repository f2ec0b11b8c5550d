package externalapi

import (
	"crypto/sha256"
	"encoding/binary"
)

// DomainBlockHeader houses the fields of a block that are hashed to produce
// the block's identity. The pruning processor never validates a header, it
// only reads the fields it needs to advance and verify the pruning point:
// UTXOCommitment, and BlueScore/BlueWork for ordering the selected chain.
type DomainBlockHeader struct {
	Version              uint16
	ParentHashes         []*DomainHash
	HashMerkleRoot       DomainHash
	AcceptedIDMerkleRoot DomainHash
	UTXOCommitment       DomainHash
	TimeInMilliseconds   int64
	Bits                 uint32
	Nonce                uint64
	BlueScore            uint64
	BlueWork             BlueWork
	DAAScore             uint64
	PruningPoint         DomainHash
}

// Hash computes the header's identity hash by double-SHA256ing its
// fields in declaration order, parent hashes included. This is the value
// every store keys a block by and the value a pruning point proof's
// headers must be compared on, rather than any field the header happens
// to carry (e.g. PruningPoint, which many unrelated headers share).
func (header *DomainBlockHeader) Hash() *DomainHash {
	buf := make([]byte, 0, 64+len(header.ParentHashes)*DomainHashSize)
	buf = appendUint16(buf, header.Version)
	buf = appendUint32(buf, uint32(len(header.ParentHashes)))
	for _, parentHash := range header.ParentHashes {
		buf = append(buf, parentHash[:]...)
	}
	buf = append(buf, header.HashMerkleRoot[:]...)
	buf = append(buf, header.AcceptedIDMerkleRoot[:]...)
	buf = append(buf, header.UTXOCommitment[:]...)
	buf = appendUint64(buf, uint64(header.TimeInMilliseconds))
	buf = appendUint32(buf, header.Bits)
	buf = appendUint64(buf, header.Nonce)
	buf = appendUint64(buf, header.BlueScore)
	if header.BlueWork.Int != nil {
		buf = append(buf, header.BlueWork.Bytes()...)
	}
	buf = appendUint64(buf, header.DAAScore)
	buf = append(buf, header.PruningPoint[:]...)

	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	hash := DomainHash(second)
	return &hash
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendUint32(buf []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func appendUint64(buf []byte, v uint64) []byte {
	tmp := make([]byte, 8)
	binary.LittleEndian.PutUint64(tmp, v)
	return append(buf, tmp...)
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	if header == nil {
		return nil
	}

	return &DomainBlockHeader{
		Version:              header.Version,
		ParentHashes:         CloneHashes(header.ParentHashes),
		HashMerkleRoot:       header.HashMerkleRoot,
		AcceptedIDMerkleRoot: header.AcceptedIDMerkleRoot,
		UTXOCommitment:       header.UTXOCommitment,
		TimeInMilliseconds:   header.TimeInMilliseconds,
		Bits:                 header.Bits,
		Nonce:                header.Nonce,
		BlueScore:            header.BlueScore,
		BlueWork:             header.BlueWork.Clone(),
		DAAScore:             header.DAAScore,
		PruningPoint:         header.PruningPoint,
	}
}
