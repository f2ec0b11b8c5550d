package model

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// PruningStore represents the singleton store for the current pruning
// frontier along with the append-only log of past pruning points.
type PruningStore interface {
	Store
	StagePruningPointInfo(info *externalapi.PruningPointInfo)
	StagePastPruningPoint(index uint64, blockHash *externalapi.DomainHash)
	PruningPointInfo(dbContext DBReader) (*externalapi.PruningPointInfo, error)
	HasPruningPointInfo(dbContext DBReader) (bool, error)
	PastPruningPointByIndex(dbContext DBReader, index uint64) (*externalapi.DomainHash, error)
}

// PruningPointUTXOSetStore represents the full UTXO snapshot as of the
// current pruning point, keyed by outpoint and cheaply iterable so the
// pruning processor can roll it forward diff by diff and, when sanity
// checking is enabled, fold it into a MuHash commitment.
type PruningPointUTXOSetStore interface {
	Store
	Stage(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry)
	StageDelete(outpoint *externalapi.DomainOutpoint)
	Get(dbContext DBReader, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)
	Iterator(dbContext DBReader) (UTXOSetIterator, error)
}

// UTXOSetIterator iterates over a full UTXO set in outpoint order.
type UTXOSetIterator interface {
	Next() bool
	Get() (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error)
	Close() error
}
