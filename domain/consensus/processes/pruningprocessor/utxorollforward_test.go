package pruningprocessor

import (
	"bytes"
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/ruleerrors"
	"github.com/daglabs/prunepoint/domain/consensus/utils/muhash"
	"github.com/pkg/errors"
)

func TestSerializeUTXOForMultisetDistinguishesOutpointsAndEntries(t *testing.T) {
	outpointA := externalapi.NewDomainOutpoint(hashFromLabel("A"), 0)
	outpointB := externalapi.NewDomainOutpoint(hashFromLabel("A"), 1)
	entry := externalapi.NewUTXOEntry(100, []byte("script"), false, 7)
	otherEntry := externalapi.NewUTXOEntry(200, []byte("script"), false, 7)

	serialized := serializeUTXOForMultiset(outpointA, entry)
	differentIndex := serializeUTXOForMultiset(outpointB, entry)
	differentAmount := serializeUTXOForMultiset(outpointA, otherEntry)

	if bytes.Equal(serialized, differentIndex) {
		t.Errorf("expected different outpoint indexes to serialize differently")
	}
	if bytes.Equal(serialized, differentAmount) {
		t.Errorf("expected different amounts to serialize differently")
	}
}

func TestAppendUintLittleEndian(t *testing.T) {
	got := appendUint32(nil, 0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("appendUint32 = %x, want %x", got, want)
	}

	got64 := appendUint64(nil, 0x0102030405060708)
	want64 := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got64, want64) {
		t.Errorf("appendUint64 = %x, want %x", got64, want64)
	}
}

func TestRollUTXOSetForward(t *testing.T) {
	genesis, next := hashFromLabel("G"), hashFromLabel("N")

	t.Run("applies each block's diff in chain order", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, false)
		fixture.dag.chain = []*externalapi.DomainHash{genesis, next}

		stagePruningPointInfo(t, fixture, &externalapi.PruningPointInfo{PruningPoint: genesis, Candidate: genesis})

		outpoint := externalapi.NewDomainOutpoint(hashFromLabel("tx"), 0)
		entry := externalapi.NewUTXOEntry(50, nil, false, 1)
		stageUTXODiff(t, fixture, next, &externalapi.UTXODiff{
			ToAdd: []*externalapi.OutpointAndUTXOEntryPair{{Outpoint: outpoint, UTXOEntry: entry}},
		})

		if err := fixture.processor.rollUTXOSetForward(next); err != nil {
			t.Fatalf("rollUTXOSetForward: %s", err)
		}

		got, err := fixture.pruningPointUTXOSet.Get(fixture.databaseContext, outpoint)
		if err != nil {
			t.Fatalf("Get: %s", err)
		}
		if got.Amount != entry.Amount {
			t.Errorf("Amount = %d, want %d", got.Amount, entry.Amount)
		}
	})

	t.Run("no-op when the pruning point does not move", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, false)
		stagePruningPointInfo(t, fixture, &externalapi.PruningPointInfo{PruningPoint: genesis, Candidate: genesis})

		if err := fixture.processor.rollUTXOSetForward(genesis); err != nil {
			t.Fatalf("rollUTXOSetForward: %s", err)
		}
	})

	t.Run("missing diff surfaces as ErrMissingUTXODiff", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, false)
		fixture.dag.chain = []*externalapi.DomainHash{genesis, next}
		stagePruningPointInfo(t, fixture, &externalapi.PruningPointInfo{PruningPoint: genesis, Candidate: genesis})

		err := fixture.processor.rollUTXOSetForward(next)
		if !errors.Is(err, ruleerrors.ErrMissingUTXODiff) {
			t.Fatalf("err = %v, want wrapping ErrMissingUTXODiff", err)
		}
	})
}

func TestVerifyUTXOCommitment(t *testing.T) {
	genesis := hashFromLabel("G")
	outpoint := externalapi.NewDomainOutpoint(hashFromLabel("tx"), 0)
	entry := externalapi.NewUTXOEntry(50, []byte("pk"), false, 1)

	t.Run("matches when the header commits to the actual set", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, true)
		stageUTXOEntry(t, fixture, outpoint, entry)

		accumulator := muhash.New()
		accumulator.Add(serializeUTXOForMultiset(outpoint, entry))
		stageHeader(t, fixture, genesis, &externalapi.DomainBlockHeader{UTXOCommitment: *accumulator.Hash()})

		if err := fixture.processor.verifyUTXOCommitment(genesis); err != nil {
			t.Fatalf("verifyUTXOCommitment: %s", err)
		}
	})

	t.Run("mismatch surfaces as ErrUTXOCommitmentMismatch", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, true)
		stageUTXOEntry(t, fixture, outpoint, entry)
		stageHeader(t, fixture, genesis, &externalapi.DomainBlockHeader{UTXOCommitment: externalapi.DomainHash{0xff}})

		err := fixture.processor.verifyUTXOCommitment(genesis)
		if !errors.Is(err, ruleerrors.ErrUTXOCommitmentMismatch) {
			t.Fatalf("err = %v, want wrapping ErrUTXOCommitmentMismatch", err)
		}
	})

	t.Run("missing header surfaces as ErrMissingHeader", func(t *testing.T) {
		fixture := newTestFixture(genesis, false, true)
		stageUTXOEntry(t, fixture, outpoint, entry)

		err := fixture.processor.verifyUTXOCommitment(genesis)
		if !errors.Is(err, ruleerrors.ErrMissingHeader) {
			t.Fatalf("err = %v, want wrapping ErrMissingHeader", err)
		}
	})
}

func stagePruningPointInfo(t *testing.T, fixture *testFixture, info *externalapi.PruningPointInfo) {
	t.Helper()
	tx, err := fixture.databaseContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	fixture.pruningStore.StagePruningPointInfo(info)
	if err := fixture.pruningStore.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}

func stageUTXODiff(t *testing.T, fixture *testFixture, blockHash *externalapi.DomainHash, diff *externalapi.UTXODiff) {
	t.Helper()
	tx, err := fixture.databaseContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	fixture.utxoDiffStore.Stage(blockHash, diff, nil)
	if err := fixture.utxoDiffStore.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}

func stageUTXOEntry(t *testing.T, fixture *testFixture, outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	t.Helper()
	tx, err := fixture.databaseContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	fixture.pruningPointUTXOSet.Stage(outpoint, entry)
	if err := fixture.pruningPointUTXOSet.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}

func stageHeader(t *testing.T, fixture *testFixture, blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) {
	t.Helper()
	tx, err := fixture.databaseContext.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	defer tx.RollbackUnlessClosed()
	fixture.blockHeaderStore.Stage(blockHash, header)
	if err := fixture.blockHeaderStore.Commit(tx); err != nil {
		t.Fatalf("Commit: %s", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %s", err)
	}
}
