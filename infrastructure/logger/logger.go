// Package logger provides the subsystem-tagged logging surface used across
// this module, modeled on the root-level logger package a full node
// carries: a single rotated log file backend shared by per-subsystem
// Logger handles.
package logger

import (
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

// subsystemTags names every logging subsystem this module defines. A full
// node's logger carries one tag per subsystem (BDAG, RPCS, PEER, ...); this
// trimmed build carries only the one the pruning pipeline needs.
type subsystemTags struct {
	PRUN string
}

// SubsystemTags is the set of recognized subsystem tags.
var SubsystemTags = subsystemTags{
	PRUN: "PRUN",
}

var backendLog = NewBackend()

// InitLogRotator creates a rotating log file at logFile and wires it into
// the shared backend, in addition to the always-on stdout writer.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return err
	}

	r, err := rotator.New(logFile, 10*1024, false, 8)
	if err != nil {
		return err
	}

	backendLog = NewBackend(r)
	return nil
}

// Get returns the Logger for the given subsystem tag.
func Get(tag string) *Logger {
	return backendLog.Logger(tag)
}
