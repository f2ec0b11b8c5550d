package pruningprocessor

import (
	"math/big"
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func TestFilterKept(t *testing.T) {
	a, b, c := hashFromLabel("A"), hashFromLabel("B"), hashFromLabel("C")
	keep := map[externalapi.DomainHash]struct{}{*a: {}, *c: {}}

	tests := map[string]struct {
		hashes        []*externalapi.DomainHash
		wantFiltered  []*externalapi.DomainHash
		wantChanged   bool
	}{
		"nothing filtered": {
			hashes:       []*externalapi.DomainHash{a, c},
			wantFiltered: []*externalapi.DomainHash{a, c},
			wantChanged:  false,
		},
		"one filtered out": {
			hashes:       []*externalapi.DomainHash{a, b, c},
			wantFiltered: []*externalapi.DomainHash{a, c},
			wantChanged:  true,
		},
		"all filtered out": {
			hashes:       []*externalapi.DomainHash{b},
			wantFiltered: []*externalapi.DomainHash{},
			wantChanged:  true,
		},
		"empty input": {
			hashes:       nil,
			wantFiltered: []*externalapi.DomainHash{},
			wantChanged:  false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			filtered, changed := filterKept(test.hashes, keep)
			if changed != test.wantChanged {
				t.Errorf("changed = %v, want %v", changed, test.wantChanged)
			}
			if !externalapi.HashesEqual(filtered, test.wantFiltered) {
				t.Errorf("filtered = %v, want %v", filtered, test.wantFiltered)
			}
		})
	}
}

func TestCompactGHOSTDAGData(t *testing.T) {
	genesis, parent, blue1, blue2, red1 := hashFromLabel("G"), hashFromLabel("P"), hashFromLabel("U"), hashFromLabel("V"), hashFromLabel("R")

	t.Run("fully kept data is returned unchanged", func(t *testing.T) {
		keep := map[externalapi.DomainHash]struct{}{*parent: {}, *blue1: {}, *blue2: {}, *red1: {}}
		data := externalapi.NewBlockGHOSTDAGData(5, externalapi.NewBlueWork(big.NewInt(5)), parent,
			[]*externalapi.DomainHash{blue1, blue2}, []*externalapi.DomainHash{red1},
			map[externalapi.DomainHash]externalapi.KType{*blue1: 1, *blue2: 2})

		compacted := compactGHOSTDAGData(data, keep)
		if compacted != data {
			t.Errorf("expected the same instance back when nothing needs filtering")
		}
	})

	t.Run("pruned selected parent is replaced with origin", func(t *testing.T) {
		keep := map[externalapi.DomainHash]struct{}{*blue1: {}}
		data := externalapi.NewBlockGHOSTDAGData(5, externalapi.NewBlueWork(big.NewInt(5)), parent,
			[]*externalapi.DomainHash{blue1}, nil, map[externalapi.DomainHash]externalapi.KType{*blue1: 1})

		compacted := compactGHOSTDAGData(data, keep)
		if !compacted.SelectedParent.Equal(&externalapi.OriginHash) {
			t.Errorf("SelectedParent = %s, want origin", compacted.SelectedParent)
		}
		if !externalapi.HashesEqual(compacted.MergeSetBlues, []*externalapi.DomainHash{blue1}) {
			t.Errorf("MergeSetBlues = %v, want [%s]", compacted.MergeSetBlues, blue1)
		}
	})

	t.Run("pruned merge-set members are dropped along with their anticone sizes", func(t *testing.T) {
		keep := map[externalapi.DomainHash]struct{}{*parent: {}, *blue1: {}}
		data := externalapi.NewBlockGHOSTDAGData(5, externalapi.NewBlueWork(big.NewInt(5)), parent,
			[]*externalapi.DomainHash{blue1, blue2}, []*externalapi.DomainHash{red1, genesis},
			map[externalapi.DomainHash]externalapi.KType{*blue1: 1, *blue2: 2})

		compacted := compactGHOSTDAGData(data, keep)
		if !externalapi.HashesEqual(compacted.MergeSetBlues, []*externalapi.DomainHash{blue1}) {
			t.Errorf("MergeSetBlues = %v, want [%s]", compacted.MergeSetBlues, blue1)
		}
		if len(compacted.MergeSetReds) != 0 {
			t.Errorf("MergeSetReds = %v, want empty", compacted.MergeSetReds)
		}
		if _, ok := compacted.BluesAnticoneSizes[*blue2]; ok {
			t.Errorf("BluesAnticoneSizes still carries pruned blue %s", blue2)
		}
		if size, ok := compacted.BluesAnticoneSizes[*blue1]; !ok || size != 1 {
			t.Errorf("BluesAnticoneSizes[%s] = %v, %v; want 1, true", blue1, size, ok)
		}
	})
}
