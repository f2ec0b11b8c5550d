package pruningprocessor

import (
	"github.com/daglabs/prunepoint/domain/consensus/database"
	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/ruleerrors"
	"github.com/daglabs/prunepoint/domain/consensus/utils/muhash"
	"github.com/pkg/errors"
)

// rollUTXOSetForward advances the pruning-point UTXO snapshot from its
// previous position to newPruningPoint, one block's diff at a time, using
// the reachability tree's forward chain iterator. When sanity checking is
// enabled, it then folds the entire resulting set into a MuHash and
// compares it against newPruningPoint's header commitment.
func (pp *PruningProcessor) rollUTXOSetForward(newPruningPoint *externalapi.DomainHash) error {
	info, err := pp.pruningStore.PruningPointInfo(pp.databaseContext)
	if err != nil {
		return errors.Wrap(err, "failed reading pruning point info")
	}
	oldPruningPoint := info.PruningPoint
	if oldPruningPoint.Equal(newPruningPoint) {
		return nil
	}

	iterator, err := pp.reachabilityManager.ForwardChainIterator(oldPruningPoint, newPruningPoint)
	if err != nil {
		return errors.Wrap(err, "failed building forward chain iterator")
	}
	defer iterator.Close()

	tx, err := pp.databaseContext.Begin()
	if err != nil {
		return errors.Wrap(err, "failed opening transaction")
	}
	defer tx.RollbackUnlessClosed()

	for iterator.Next() {
		blockHash, err := iterator.Get()
		if err != nil {
			return errors.Wrap(err, "failed reading forward chain iterator")
		}

		diff, err := pp.utxoDiffStore.UTXODiff(pp.databaseContext, blockHash)
		if err != nil {
			return errors.Wrapf(ruleerrors.ErrMissingUTXODiff, "block %s: %s", blockHash, err)
		}
		for _, outpoint := range diff.ToRemove {
			pp.pruningPointUTXOSet.StageDelete(outpoint)
		}
		for _, pair := range diff.ToAdd {
			pp.pruningPointUTXOSet.Stage(pair.Outpoint, pair.UTXOEntry)
		}
	}

	if err := pp.pruningPointUTXOSet.Commit(tx); err != nil {
		return errors.Wrap(err, "failed committing rolled-forward UTXO set")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed committing transaction")
	}

	if !pp.config.EnableSanityChecks {
		return nil
	}
	return pp.verifyUTXOCommitment(newPruningPoint)
}

// verifyUTXOCommitment recomputes the MuHash of the full pruning-point UTXO
// set and compares it against newPruningPoint's header commitment. A
// mismatch means the diffs applied above disagree with what the rest of
// consensus believes this pruning point's UTXO set looks like, which is
// unrecoverable: the pruning processor cannot repair its own inputs.
func (pp *PruningProcessor) verifyUTXOCommitment(newPruningPoint *externalapi.DomainHash) error {
	header, err := pp.blockHeaderStore.BlockHeader(pp.databaseContext, newPruningPoint)
	if errors.Is(err, database.ErrNotFound) {
		return errors.Wrapf(ruleerrors.ErrMissingHeader, "new pruning point %s", newPruningPoint)
	}
	if err != nil {
		return errors.Wrap(err, "failed reading new pruning point header")
	}

	iterator, err := pp.pruningPointUTXOSet.Iterator(pp.databaseContext)
	if err != nil {
		return errors.Wrap(err, "failed opening UTXO set iterator")
	}
	defer iterator.Close()

	accumulator := muhash.New()
	for iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return errors.Wrap(err, "failed reading UTXO set iterator")
		}
		accumulator.Add(serializeUTXOForMultiset(outpoint, entry))
	}

	computed := accumulator.Hash()
	if !computed.Equal(&header.UTXOCommitment) {
		return errors.Wrapf(ruleerrors.ErrUTXOCommitmentMismatch,
			"pruning point %s: computed %s, header commits to %s",
			newPruningPoint, computed, &header.UTXOCommitment)
	}
	return nil
}

func serializeUTXOForMultiset(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) []byte {
	buf := make([]byte, 0, 32+4+8+len(entry.ScriptPublicKey)+8+1)
	buf = append(buf, outpoint.TransactionID[:]...)
	buf = appendUint32(buf, outpoint.Index)
	buf = appendUint64(buf, entry.Amount)
	buf = append(buf, entry.ScriptPublicKey...)
	buf = appendUint64(buf, entry.BlockBlueScore)
	if entry.IsCoinbase {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
