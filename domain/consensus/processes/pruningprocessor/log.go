package pruningprocessor

import "github.com/daglabs/prunepoint/infrastructure/logger"

var log = logger.Get(logger.SubsystemTags.PRUN)
