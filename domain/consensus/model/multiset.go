package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// Multiset tracks an incremental, order-independent commitment over a set of
// byte strings, used to commit to the UTXO set at the pruning point without
// re-hashing the whole set on every change.
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Clone() Multiset
}
