// Package hir provides the position-independent intermediate representation
// of program structure: per-file item indices, per-module impl-block
// indices, the module tree, and arena-allocated function bodies with a
// bidirectional syntax mapping.
//
// HIR nodes never hold live syntax references. Each node refers to its
// children by dense integer id into an owning arena, which keeps the
// structure acyclic by construction and lets a whole Body be shared behind
// a pointer by any number of concurrent readers. The syntax mapping layer
// (BodySourceMap, SourceFileItems) is the only part that knows byte
// positions; it is re-derived on reparse while the IR itself survives.
package hir

type (
	// ExprID indexes a Body's expression arena.
	ExprID uint32
	// PatID indexes a Body's pattern arena.
	PatID uint32
	// ItemID indexes a file's item arena (SourceFileItems).
	ItemID uint32
	// ImplID indexes a module's impl-block arena.
	ImplID uint32
	// ModuleID identifies a module within one source root's module tree.
	ModuleID uint32
	// DefID is an interned definition identity; see DefInterner.
	DefID uint32
)

// Zero is the sentinel for every id kind; arenas allocate from 1.
const (
	NoExprID   ExprID   = 0
	NoPatID    PatID    = 0
	NoItemID   ItemID   = 0
	NoImplID   ImplID   = 0
	NoModuleID ModuleID = 0
	NoDefID    DefID    = 0
)

func (id ExprID) IsValid() bool   { return id != NoExprID }
func (id PatID) IsValid() bool    { return id != NoPatID }
func (id ItemID) IsValid() bool   { return id != NoItemID }
func (id ImplID) IsValid() bool   { return id != NoImplID }
func (id ModuleID) IsValid() bool { return id != NoModuleID }
func (id DefID) IsValid() bool    { return id != NoDefID }
