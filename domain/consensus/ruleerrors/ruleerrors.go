// Package ruleerrors defines the sentinel errors the pruning pipeline
// raises when a consensus invariant it depends on does not hold. Every one
// of these is fatal: none is retried, none is swallowed.
package ruleerrors

import "github.com/pkg/errors"

var (
	// ErrMissingUTXODiff is raised when a selected-chain block that must
	// have a UTXO diff on record does not.
	ErrMissingUTXODiff = errors.New("missing UTXO diff for selected-chain block")

	// ErrMissingHeader is raised when a block that must have a header on
	// record does not, e.g. the pruning point itself.
	ErrMissingHeader = errors.New("missing header for required block")

	// ErrUTXOCommitmentMismatch is raised when the MuHash of the rolled
	// forward pruning-point UTXO set does not match the new pruning
	// point's header commitment.
	ErrUTXOCommitmentMismatch = errors.New("pruning point UTXO set does not match header commitment")

	// ErrProofMismatch is raised when the proof rebuilt for the new pruning
	// point does not reproduce the reference built for the recorded one.
	ErrProofMismatch = errors.New("rebuilt pruning point proof does not match reference")

	// ErrTrustedDataMismatch is raised when the trusted data rebuilt for the
	// new pruning point does not reproduce the reference built for the
	// recorded one.
	ErrTrustedDataMismatch = errors.New("rebuilt trusted data does not match reference")

	// ErrInsufficientDepth is raised by the pruning proof manager's
	// BuildPruningPointProof when asked to build a proof at insufficient
	// depth; trusted-data calculation does not raise it. Reaching this at pruning time means the
	// guarded-advancement check in the pruning point advancer did not do
	// its job.
	ErrInsufficientDepth = errors.New("insufficient depth to build pruning point proof or trusted data")
)
