package locks

import (
	"context"
	"testing"
	"time"
)

func TestBlockingWriteExcludesReaders(t *testing.T) {
	lock := NewSessionLock()

	unlock, err := lock.BlockingWrite(context.Background())
	if err != nil {
		t.Fatalf("BlockingWrite: %s", err)
	}

	rlocked := make(chan struct{})
	go func() {
		lock.RLock()
		close(rlocked)
		lock.RUnlock()
	}()

	select {
	case <-rlocked:
		t.Fatal("a reader acquired the lock while a writer still held it")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()

	select {
	case <-rlocked:
	case <-time.After(time.Second):
		t.Fatal("reader never acquired the lock after the writer released it")
	}
}

func TestBlockingYieldLetsQueuedWriterThrough(t *testing.T) {
	lock := NewSessionLock()

	unlock, err := lock.BlockingWrite(context.Background())
	if err != nil {
		t.Fatalf("BlockingWrite: %s", err)
	}

	secondWriterDone := make(chan struct{})
	go func() {
		secondUnlock, err := lock.BlockingWrite(context.Background())
		if err != nil {
			return
		}
		close(secondWriterDone)
		secondUnlock()
	}()

	// Give the second writer time to queue behind the semaphore before we yield.
	time.Sleep(20 * time.Millisecond)

	if err := lock.BlockingYield(context.Background()); err != nil {
		t.Fatalf("BlockingYield: %s", err)
	}
	unlock()

	select {
	case <-secondWriterDone:
	case <-time.After(time.Second):
		t.Fatal("queued writer never got a turn after BlockingYield")
	}
}

func TestBlockingWriteRespectsContextCancellation(t *testing.T) {
	lock := NewSessionLock()

	unlock, err := lock.BlockingWrite(context.Background())
	if err != nil {
		t.Fatalf("BlockingWrite: %s", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := lock.BlockingWrite(ctx); err == nil {
		t.Fatal("expected BlockingWrite to fail once its context deadline passed while the lock was held")
	}
}
