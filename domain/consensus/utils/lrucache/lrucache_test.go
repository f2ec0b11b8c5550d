package lrucache

import (
	"testing"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
)

func hashFromLabel(label string) *externalapi.DomainHash {
	var hash externalapi.DomainHash
	copy(hash[:], label)
	return &hash
}

func TestAddAndGet(t *testing.T) {
	c := New(2)
	a, b := hashFromLabel("a"), hashFromLabel("b")

	c.Add(a, 1)
	c.Add(b, 2)

	if value, ok := c.Get(a); !ok || value != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", value, ok)
	}
	if value, ok := c.Get(b); !ok || value != 2 {
		t.Fatalf("Get(b) = %v, %v; want 2, true", value, ok)
	}
}

func TestAddEvictsOldestWhenFull(t *testing.T) {
	c := New(2)
	a, b, d := hashFromLabel("a"), hashFromLabel("b"), hashFromLabel("d")

	c.Add(a, 1)
	c.Add(b, 2)
	c.Add(d, 3)

	if c.Has(a) {
		t.Fatal("a should have been evicted once the cache exceeded capacity")
	}
	if !c.Has(b) || !c.Has(d) {
		t.Fatal("b and d should both still be present")
	}
}

func TestAddOverwritingExistingKeyDoesNotEvict(t *testing.T) {
	c := New(2)
	a, b := hashFromLabel("a"), hashFromLabel("b")

	c.Add(a, 1)
	c.Add(b, 2)
	c.Add(a, 10)

	if !c.Has(b) {
		t.Fatal("re-adding an existing key should not evict an unrelated entry")
	}
	if value, _ := c.Get(a); value != 10 {
		t.Fatalf("Get(a) = %v; want updated value 10", value)
	}
}

func TestZeroCapacityNeverRetainsAnything(t *testing.T) {
	c := New(0)
	a := hashFromLabel("a")

	c.Add(a, 1)

	if c.Has(a) {
		t.Fatal("a zero-capacity cache must never retain an entry")
	}
}

func TestRemove(t *testing.T) {
	c := New(2)
	a, b := hashFromLabel("a"), hashFromLabel("b")
	c.Add(a, 1)
	c.Add(b, 2)

	c.Remove(a)

	if c.Has(a) {
		t.Fatal("a should have been removed")
	}
	if !c.Has(b) {
		t.Fatal("b should be unaffected by removing a")
	}

	// Removing a's order entry must not corrupt subsequent eviction order:
	// d takes a's freed slot, and e should then evict b, the oldest
	// remaining entry, not something else.
	d := hashFromLabel("d")
	c.Add(d, 3)
	e := hashFromLabel("e")
	c.Add(e, 4)
	if c.Has(b) {
		t.Fatal("b should have been evicted as the oldest surviving entry")
	}
	if !c.Has(d) || !c.Has(e) {
		t.Fatal("d and e should both still be present")
	}
}

func TestRemoveMissingKeyIsNoOp(t *testing.T) {
	c := New(2)
	a := hashFromLabel("a")
	c.Remove(a) // must not panic
	if c.Has(a) {
		t.Fatal("removing an absent key should not add it")
	}
}
