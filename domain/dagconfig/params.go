// Package dagconfig carries the network parameters the pruning pipeline
// reads: the GHOSTDAG K parameter, finality and pruning depth, the genesis
// block identity, and the handful of switches the pruning processor itself
// is configured by.
package dagconfig

import (
	"time"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

// KType defines the size of the GHOSTDAG consensus algorithm's K parameter.
type KType uint8

const (
	ghostdagK        KType         = 18
	finalityDuration time.Duration = 24 * time.Hour
	pruningDepth     uint64        = 2 * 24 * 3600 // twice the finality duration, expressed in blocks at a 1-block-per-second target
)

// Params defines a Kaspa-style network by the parameters the pruning
// pipeline needs: enough to identify genesis, to know how deep finality and
// pruning run, and how this component itself is configured.
type Params struct {
	// K is the GHOSTDAG K parameter.
	K KType

	// Name is a human-readable identifier for the network.
	Name string

	// GenesisHash is the hash of the first block in the DAG.
	GenesisHash *externalapi.DomainHash

	// GenesisHeader is the header of the first block in the DAG.
	GenesisHeader *externalapi.DomainBlockHeader

	// FinalityDuration is the duration of the finality window.
	FinalityDuration time.Duration

	// PruningDepth is the number of blocks, measured in blue score, that
	// must separate the virtual selected tip from the pruning point
	// before the pruning point may advance again.
	PruningDepth uint64

	// IsArchival, when true, directs the pruning processor to advance
	// pruning-info and roll the UTXO set forward but never discard
	// historical blocks.
	IsArchival bool

	// EnableSanityChecks, when true, directs the pruning processor to
	// verify the rolled-forward UTXO commitment and rebuilt pruning
	// point proof/trusted data against their references before pruning.
	EnableSanityChecks bool
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	K:                  ghostdagK,
	Name:               "kaspa-mainnet",
	GenesisHash:        &genesisHash,
	GenesisHeader:      &genesisHeader,
	FinalityDuration:   finalityDuration,
	PruningDepth:       pruningDepth,
	IsArchival:         false,
	EnableSanityChecks: true,
}
