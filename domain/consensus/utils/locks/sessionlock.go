// Package locks provides the concurrency primitives the pruning pipeline
// shares with the rest of consensus: a fair writer-preference session lock.
package locks

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// SessionLock is a fair writer-preference lock. Other consensus processors
// take it in read mode for the duration of ordinary block/virtual
// processing; the pruning processor takes it in write mode but is expected
// to call BlockingYield periodically so queued readers are not starved by a
// single long traversal.
type SessionLock struct {
	mu         sync.RWMutex
	writerGate *semaphore.Weighted
}

// NewSessionLock creates a new SessionLock.
func NewSessionLock() *SessionLock {
	return &SessionLock{writerGate: semaphore.NewWeighted(1)}
}

// RLock acquires the lock in read mode for ordinary consensus processing.
func (l *SessionLock) RLock() {
	l.mu.RLock()
}

// RUnlock releases a read-mode acquisition.
func (l *SessionLock) RUnlock() {
	l.mu.RUnlock()
}

// BlockingWrite acquires the lock in write mode, blocking until no readers
// remain and no other writer is ahead in line. The returned function
// releases it.
func (l *SessionLock) BlockingWrite(ctx context.Context) (unlock func(), err error) {
	if err := l.writerGate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		l.writerGate.Release(1)
	}, nil
}

// BlockingYield releases the write lock just long enough for any reader
// queued behind it to make progress, then reacquires write mode. The
// semaphore's FIFO ordering is what gives this its fairness: a reader or
// competing writer that arrived while we held the lock is served before we
// get it back.
func (l *SessionLock) BlockingYield(ctx context.Context) error {
	l.mu.Unlock()
	l.writerGate.Release(1)
	log.Tracef("SessionLock yielded to queued readers/writers")

	if err := l.writerGate.Acquire(ctx, 1); err != nil {
		return err
	}
	l.mu.Lock()
	return nil
}
