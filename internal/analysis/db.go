// Package analysis hosts the analysis database: the mutable input tables
// (file text, source roots, the crate graph) and the derived queries
// computed from them. Derived values are immutable once built and are
// routed through an injected memo.Cache; mutating any input clears the
// cache wholesale, so readers never observe stale results.
package analysis

import (
	"sync"

	"quarry/internal/crates"
	"quarry/internal/hir"
	"quarry/internal/memo"
	"quarry/internal/observ"
	"quarry/internal/source"
)

// DB is the analysis database. Input mutation and query execution are
// safe to interleave from multiple goroutines; queries see a consistent
// snapshot because every derived value is rebuilt from inputs after an
// invalidation.
type DB struct {
	mu       sync.RWMutex
	files    *source.FileSet
	fileRoot map[source.FileID]source.SourceRootID
	roots    map[source.SourceRootID]*source.SourceRoot
	crates   *crates.Graph

	defs  *hir.DefInterner
	cache memo.Cache
	timer *observ.Timer
}

// NewDB creates an empty database backed by cache.
func NewDB(cache memo.Cache) *DB {
	return &DB{
		files:    source.NewFileSet(),
		fileRoot: make(map[source.FileID]source.SourceRootID),
		roots:    make(map[source.SourceRootID]*source.SourceRoot),
		crates:   crates.NewGraph(),
		defs:     hir.NewDefInterner(),
		cache:    cache,
	}
}

// SetTimer installs a phase timer; expensive queries record their
// construction time on it. Nil disables timing.
func (db *DB) SetTimer(t *observ.Timer) {
	db.mu.Lock()
	db.timer = t
	db.mu.Unlock()
}

// AddFile registers file content under path and returns its id. Re-adding
// a path yields a fresh id; ids are never reused.
func (db *DB) AddFile(path string, content []byte) source.FileID {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.files.Add(path, content, 0)
	db.cache.Clear()
	return id
}

// FileContent returns the stored text of a file.
func (db *DB) FileContent(id source.FileID) ([]byte, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if int(id) >= db.files.Len() {
		return nil, false
	}
	return db.files.Get(id).Content, true
}

// SetSourceRoot installs or replaces a source root.
func (db *DB) SetSourceRoot(id source.SourceRootID, root *source.SourceRoot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.roots[id] = root
	db.cache.Clear()
}

// SourceRoot returns a registered root.
func (db *DB) SourceRoot(id source.SourceRootID) (*source.SourceRoot, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	root, ok := db.roots[id]
	return root, ok
}

// AssignFileToRoot records which source root a file belongs to.
func (db *DB) AssignFileToRoot(file source.FileID, root source.SourceRootID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fileRoot[file] = root
	db.cache.Clear()
}

// RootOfFile returns the source root a file was assigned to.
func (db *DB) RootOfFile(file source.FileID) (source.SourceRootID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.fileRoot[file]
	return id, ok
}

// SetCrateGraph replaces the crate graph input.
func (db *DB) SetCrateGraph(g *crates.Graph) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.crates = g
	db.cache.Clear()
}

// CrateGraph returns the current crate graph. The graph is treated as
// immutable once installed; callers must not add crates or edges to it.
func (db *DB) CrateGraph() *crates.Graph {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.crates
}

// Defs returns the definition interner. Interned ids survive input
// changes; only the derived queries are invalidated.
func (db *DB) Defs() *hir.DefInterner {
	return db.defs
}

func (db *DB) currentTimer() *observ.Timer {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.timer
}
