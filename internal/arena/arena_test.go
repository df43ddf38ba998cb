package arena_test

import (
	"testing"

	"quarry/internal/arena"
)

func TestAllocateAssignsDenseIDsFromOne(t *testing.T) {
	a := arena.New[string](4)
	first := a.Allocate("a")
	second := a.Allocate("b")
	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}
	if got := *a.Get(first); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
	if got := *a.Get(second); got != "b" {
		t.Errorf("expected %q, got %q", "b", got)
	}
}

func TestGetZeroAndOutOfRangeReturnsNil(t *testing.T) {
	a := arena.New[int](0)
	a.Allocate(10)
	if a.Get(0) != nil {
		t.Error("id 0 must never resolve")
	}
	if a.Get(2) != nil {
		t.Error("out-of-range id must not resolve")
	}
}

func TestSliceReflectsAllocationOrder(t *testing.T) {
	a := arena.New[int](0)
	for i := 0; i < 5; i++ {
		a.Allocate(i * 10)
	}
	slice := a.Slice()
	if len(slice) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(slice))
	}
	for i, v := range slice {
		if v != i*10 {
			t.Errorf("slot %d: expected %d, got %d", i, i*10, v)
		}
	}
	if a.Len() != 5 {
		t.Errorf("expected Len 5, got %d", a.Len())
	}
}

func TestGetReturnsMutableSlot(t *testing.T) {
	a := arena.New[int](0)
	id := a.Allocate(1)
	*a.Get(id) = 42
	if got := *a.Get(id); got != 42 {
		t.Errorf("expected mutation to stick, got %d", got)
	}
}
