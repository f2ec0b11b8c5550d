package pruningprocessor

import "github.com/daglabs/prunepoint/domain/consensus/model/externalapi"

// ProcessMessage is the single work-channel protocol element the virtual
// processor feeds to the pruning processor: either fresh sink GHOSTDAG data
// to process, or a request to shut the worker down.
type ProcessMessage struct {
	SinkGHOSTDAGData *externalapi.CompactGhostdagData
	Exit             bool
}

// SweepStats reports what a single Process call did, for the end-of-sweep
// log line: useful for operators watching pruning keep up with chain
// growth.
type SweepStats struct {
	// Traversed counts every block visited during the main traversal,
	// whether or not it ended up pruned.
	Traversed uint64
	// Deleted counts blocks that were fully pruned (not merely demoted to
	// header-only).
	Deleted uint64
	// Advanced is true if the pruning point itself moved during this call.
	Advanced bool
}
