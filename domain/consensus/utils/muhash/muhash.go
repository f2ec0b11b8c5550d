// Package muhash implements an incremental multiset hash used to commit to
// the pruning-point UTXO set without re-hashing the full set on every
// change. Elements are combined with multiplication modulo a fixed large
// prime, so Add/Remove commute and the final digest is independent of
// insertion order.
package muhash

import (
	"crypto/sha256"
	"math/big"

	"github.com/daglabs/prunepoint/domain/consensus/model"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

// modulus is a 2048-bit safe prime, large enough that element hashes mapped
// into Z_modulus collide only with negligible probability.
var modulus, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
		"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374"+
		"FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE"+
		"386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598D"+
		"A48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9ED5"+
		"29077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3BE39E7"+
		"72C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF6955817183995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF",
	16)

// MuHash is a stdlib-only multiset accumulator backing the pruning-point
// UTXO commitment.
type MuHash struct {
	numerator   *big.Int
	denominator *big.Int
}

// New creates an empty MuHash, representing the empty multiset.
func New() *MuHash {
	return &MuHash{
		numerator:   big.NewInt(1),
		denominator: big.NewInt(1),
	}
}

func elementToFieldElement(data []byte) *big.Int {
	digest := sha256.Sum256(data)
	value := new(big.Int).SetBytes(digest[:])
	value.Mod(value, modulus)
	if value.Sign() == 0 {
		value.SetInt64(1)
	}
	return value
}

// Add folds data into the multiset.
func (mh *MuHash) Add(data []byte) {
	mh.numerator.Mul(mh.numerator, elementToFieldElement(data))
	mh.numerator.Mod(mh.numerator, modulus)
}

// Remove undoes a previous Add of data.
func (mh *MuHash) Remove(data []byte) {
	mh.denominator.Mul(mh.denominator, elementToFieldElement(data))
	mh.denominator.Mod(mh.denominator, modulus)
}

// Hash finalizes the accumulator into a single DomainHash digest.
func (mh *MuHash) Hash() *externalapi.DomainHash {
	denominatorInverse := new(big.Int).ModInverse(mh.denominator, modulus)
	combined := new(big.Int).Mul(mh.numerator, denominatorInverse)
	combined.Mod(combined, modulus)

	digest := sha256.Sum256(combined.Bytes())
	hash := externalapi.DomainHash(digest)
	return &hash
}

// Clone returns an independent copy of this MuHash.
func (mh *MuHash) Clone() model.Multiset {
	return &MuHash{
		numerator:   new(big.Int).Set(mh.numerator),
		denominator: new(big.Int).Set(mh.denominator),
	}
}

var _ model.Multiset = (*MuHash)(nil)

// Serialize encodes the accumulator's numerator/denominator pair, the only
// state a MuHash carries, as a pair of fixed-width big-endian byte strings.
func (mh *MuHash) Serialize() []byte {
	modulusLen := (modulus.BitLen() + 7) / 8
	buf := make([]byte, 2*modulusLen)
	mh.numerator.FillBytes(buf[:modulusLen])
	mh.denominator.FillBytes(buf[modulusLen:])
	return buf
}

// Deserialize restores a MuHash previously produced by Serialize.
func Deserialize(data []byte) *MuHash {
	modulusLen := (modulus.BitLen() + 7) / 8
	return &MuHash{
		numerator:   new(big.Int).SetBytes(data[:modulusLen]),
		denominator: new(big.Int).SetBytes(data[modulusLen:]),
	}
}
