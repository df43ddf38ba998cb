// Package crates models the crate dependency graph: a directed acyclic
// graph over crate identities, where each crate is the FileID of its root
// module. A crate has no intrinsic name; names live only on the labeled
// dependency edges, so one crate may be known under different names in
// different dependants.
package crates

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"quarry/internal/source"
)

// CrateID identifies one crate in a Graph. Ids are dense, starting at 0.
type CrateID uint32

// Dependency is a named edge to another crate.
type Dependency struct {
	Name    string
	CrateID CrateID
}

// ErrCycle is returned when an edge insertion would make the dependency
// relation cyclic. Crate-level name resolution walks dependency edges
// transitively; a cycle would make it non-terminating, so the invariant is
// enforced at insertion time and the graph is never observed cyclic.
var ErrCycle = errors.New("cycle dependency")

type crateData struct {
	rootFile     source.FileID
	dependencies []Dependency
}

// Graph is the crate dependency graph. The zero value is not usable; call
// NewGraph.
type Graph struct {
	arena []crateData
}

func NewGraph() *Graph {
	return &Graph{}
}

// AddCrateRoot allocates a new crate whose root module is file. It never
// fails; the same file may root several crates (e.g. differing cfg sets in
// the original design).
func (g *Graph) AddCrateRoot(file source.FileID) CrateID {
	id, err := safecast.Conv[uint32](len(g.arena))
	if err != nil {
		panic(fmt.Errorf("crate count overflow: %w", err))
	}
	g.arena = append(g.arena, crateData{rootFile: file})
	return CrateID(id)
}

// AddDep adds a named dependency edge from -> to. If to can already reach
// from (or to == from), the edge would close a cycle: AddDep returns
// ErrCycle and leaves the graph untouched.
func (g *Graph) AddDep(from CrateID, name string, to CrateID) error {
	if from == to {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, from, to)
	}
	visited := make(map[CrateID]bool)
	if g.dfsFind(from, to, visited) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, from, to)
	}
	g.arena[from].dependencies = append(g.arena[from].dependencies, Dependency{
		Name:    name,
		CrateID: to,
	})
	return nil
}

// CrateRoot returns the FileID of the crate's root module.
func (g *Graph) CrateRoot(crate CrateID) source.FileID {
	return g.arena[crate].rootFile
}

// CrateIDForCrateRoot returns the first crate rooted at file, if any.
func (g *Graph) CrateIDForCrateRoot(file source.FileID) (CrateID, bool) {
	for i := range g.arena {
		if g.arena[i].rootFile == file {
			return CrateID(i), true
		}
	}
	return 0, false
}

// Dependencies returns crate's outgoing edges in insertion order. The
// returned slice is owned by the graph; callers must not mutate it.
func (g *Graph) Dependencies(crate CrateID) []Dependency {
	return g.arena[crate].dependencies
}

func (g *Graph) Len() int {
	return len(g.arena)
}

// dfsFind reports whether target is reachable from curr over existing
// edges. The visited set bounds the walk by the edge count; the graph is
// acyclic before every insertion, so the search terminates.
func (g *Graph) dfsFind(target, curr CrateID, visited map[CrateID]bool) bool {
	if visited[curr] {
		return false
	}
	visited[curr] = true
	for _, dep := range g.arena[curr].dependencies {
		if dep.CrateID == target {
			return true
		}
		if g.dfsFind(target, dep.CrateID, visited) {
			return true
		}
	}
	return false
}
