package crates_test

import (
	"errors"
	"testing"

	"quarry/internal/crates"
)

func TestAddCrateRootAssignsDenseIDs(t *testing.T) {
	g := crates.NewGraph()
	a := g.AddCrateRoot(10)
	b := g.AddCrateRoot(20)
	if a != 0 || b != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", a, b)
	}
	if g.CrateRoot(a) != 10 || g.CrateRoot(b) != 20 {
		t.Error("crate roots do not round-trip")
	}
	if id, ok := g.CrateIDForCrateRoot(20); !ok || id != b {
		t.Errorf("CrateIDForCrateRoot(20) = %d, %v", id, ok)
	}
	if _, ok := g.CrateIDForCrateRoot(99); ok {
		t.Error("unknown root file must not resolve to a crate")
	}
}

func TestAddDepRecordsInsertionOrder(t *testing.T) {
	g := crates.NewGraph()
	app := g.AddCrateRoot(1)
	liba := g.AddCrateRoot(2)
	libb := g.AddCrateRoot(3)
	if err := g.AddDep(app, "b", libb); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDep(app, "a", liba); err != nil {
		t.Fatal(err)
	}
	deps := g.Dependencies(app)
	if len(deps) != 2 {
		t.Fatalf("expected 2 deps, got %d", len(deps))
	}
	if deps[0].Name != "b" || deps[0].CrateID != libb {
		t.Errorf("first dep = %+v", deps[0])
	}
	if deps[1].Name != "a" || deps[1].CrateID != liba {
		t.Errorf("second dep = %+v", deps[1])
	}
}

func TestAddDepRejectsSelfEdge(t *testing.T) {
	g := crates.NewGraph()
	a := g.AddCrateRoot(1)
	if err := g.AddDep(a, "self", a); !errors.Is(err, crates.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if len(g.Dependencies(a)) != 0 {
		t.Error("rejected edge must not mutate the graph")
	}
}

func TestAddDepRejectsTransitiveCycle(t *testing.T) {
	g := crates.NewGraph()
	a := g.AddCrateRoot(1)
	b := g.AddCrateRoot(2)
	c := g.AddCrateRoot(3)
	if err := g.AddDep(a, "b", b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDep(b, "c", c); err != nil {
		t.Fatal(err)
	}
	err := g.AddDep(c, "a", a)
	if !errors.Is(err, crates.ErrCycle) {
		t.Fatalf("expected ErrCycle closing a->b->c->a, got %v", err)
	}
	// Pre/post state identical on rejection.
	if len(g.Dependencies(c)) != 0 {
		t.Error("rejected edge must leave the source crate untouched")
	}
	if len(g.Dependencies(a)) != 1 || len(g.Dependencies(b)) != 1 {
		t.Error("rejection must not disturb existing edges")
	}
}

func TestDiamondIsNotACycle(t *testing.T) {
	g := crates.NewGraph()
	top := g.AddCrateRoot(1)
	left := g.AddCrateRoot(2)
	right := g.AddCrateRoot(3)
	bottom := g.AddCrateRoot(4)
	for _, edge := range []struct {
		from crates.CrateID
		name string
		to   crates.CrateID
	}{
		{top, "left", left},
		{top, "right", right},
		{left, "bottom", bottom},
		{right, "bottom", bottom},
	} {
		if err := g.AddDep(edge.from, edge.name, edge.to); err != nil {
			t.Fatalf("edge %s: %v", edge.name, err)
		}
	}
}
