package hashset

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// HashSet is a set of DomainHash. The pruning processor's keep sets are
// plain maps and do not use this type.
type HashSet map[externalapi.DomainHash]struct{}

// New creates a new, empty HashSet.
func New() HashSet {
	return make(HashSet)
}

// NewFromSlice creates a HashSet containing every hash in hashes.
func NewFromSlice(hashes ...*externalapi.DomainHash) HashSet {
	set := make(HashSet, len(hashes))
	for _, hash := range hashes {
		set.Add(hash)
	}
	return set
}

// Add inserts hash into the set.
func (s HashSet) Add(hash *externalapi.DomainHash) {
	s[*hash] = struct{}{}
}

// Remove deletes hash from the set, if present.
func (s HashSet) Remove(hash *externalapi.DomainHash) {
	delete(s, *hash)
}

// Contains returns whether hash is a member of the set.
func (s HashSet) Contains(hash *externalapi.DomainHash) bool {
	_, ok := s[*hash]
	return ok
}

// ToSlice returns the set's members as a slice, in unspecified order.
func (s HashSet) ToSlice() []*externalapi.DomainHash {
	slice := make([]*externalapi.DomainHash, 0, len(s))
	for hash := range s {
		hash := hash
		slice = append(slice, &hash)
	}
	return slice
}
