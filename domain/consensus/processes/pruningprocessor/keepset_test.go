package pruningprocessor

import (
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func TestBuildKeepSetsUnionsAnticoneChainDAAWindowAndGHOSTDAGBlocks(t *testing.T) {
	genesis, pruningPoint := hashFromLabel("G"), hashFromLabel("P")
	anticoneMember := hashFromLabel("S")
	ghostdagMember := hashFromLabel("H")

	fixture := newTestFixture(genesis, false, false)
	fixture.dag.chain = []*externalapi.DomainHash{genesis, pruningPoint}
	fixture.stageGHOSTDAGData(pruningPoint, genesis)

	fixture.pruningProofManager.trustedData = &externalapi.TrustedData{
		Anticone: []*externalapi.DomainHash{pruningPoint, anticoneMember},
		DAAWindowBlocks: []*externalapi.TrustedDataDataDAABlock{
			{Header: &externalapi.DomainBlockHeader{Nonce: 1}},
		},
		GHOSTDAGBlocks: []*externalapi.TrustedDataDataGHOSTDAGData{
			{Hash: ghostdagMember},
		},
	}

	keepBlocks, keepRelations, err := fixture.processor.buildKeepSets(pruningPoint)
	if err != nil {
		t.Fatalf("buildKeepSets: %s", err)
	}

	if _, ok := keepBlocks[*pruningPoint]; !ok {
		t.Error("keepBlocks should contain the new pruning point")
	}
	if _, ok := keepBlocks[*anticoneMember]; !ok {
		t.Error("keepBlocks should contain the trusted anticone member")
	}

	for name, hash := range map[string]*externalapi.DomainHash{
		"pruning point": pruningPoint,
		"anticone":      anticoneMember,
		"chain genesis": genesis,
	} {
		if _, ok := keepRelations[*hash]; !ok {
			t.Errorf("keepRelations should contain %s", name)
		}
	}

	daaWindowHeader := fixture.pruningProofManager.trustedData.DAAWindowBlocks[0].Header
	if _, ok := keepRelations[*daaWindowHeader.Hash()]; !ok {
		t.Error("keepRelations should contain the DAA window block's header hash")
	}
	if _, ok := keepRelations[*ghostdagMember]; !ok {
		t.Error("keepRelations should contain the trusted GHOSTDAG block's hash")
	}
}
