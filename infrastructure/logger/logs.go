package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is a logging severity, ordered from most to least verbose.
type Level uint8

// The logging severities this package supports, ordered most to least
// verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelCritical:
		return "CRT"
	}
	return "OFF"
}

// Backend multiplexes log output from any number of subsystem Loggers into
// one set of writers, optionally rotated to disk.
type Backend struct {
	mu      sync.Mutex
	writers []io.Writer
}

// NewBackend creates a Backend writing to the given writers, in addition to
// always writing to os.Stdout.
func NewBackend(writers ...io.Writer) *Backend {
	return &Backend{writers: append([]io.Writer{os.Stdout}, writers...)}
}

// Logger returns a tagged Logger backed by this Backend.
func (b *Backend) Logger(tag string) *Logger {
	return &Logger{backend: b, tag: tag, level: LevelInfo}
}

func (b *Backend) write(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range b.writers {
		fmt.Fprint(w, line)
	}
}

// Close flushes and closes every rotated writer this Backend owns.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, w := range b.writers {
		if closer, ok := w.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Logger is a single subsystem's handle onto a Backend.
type Logger struct {
	backend *Backend
	tag     string
	level   Level
}

// SetLevel changes the minimum severity this Logger emits.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// Backend returns the Backend this Logger writes through.
func (l *Logger) Backend() *Backend {
	return l.backend
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n", level, l.tag, fmt.Sprintf(format, args...))
	l.backend.write(line)
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, args ...interface{}) { l.log(LevelTrace, format, args...) }

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }

// Criticalf logs at critical level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.log(LevelCritical, format, args...)
}
