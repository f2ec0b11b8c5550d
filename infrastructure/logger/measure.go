package logger

import "time"

// LogAndMeasureExecutionTime logs name has started at debug level, and
// returns a function that, when called, logs how long it took to run.
// Typical use: `onEnd := logger.LogAndMeasureExecutionTime(log, "foo");
// defer onEnd()`.
func LogAndMeasureExecutionTime(log *Logger, name string) func() {
	start := time.Now()
	log.Debugf("%s start", name)
	return func() {
		log.Debugf("%s took %s", name, time.Since(start))
	}
}
