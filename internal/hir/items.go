package hir

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/arena"
	"quarry/internal/source"
	"quarry/internal/syntax"
)

// SourceFileItems assigns a dense, file-scoped ItemID to every item node
// in one file: top-level declarations, impl-block members, and items
// nested in inline modules. The arena stores node pointers rather than
// live nodes, so the index survives reparses; resolving an ItemID against
// the current tree goes through the pointer.
type SourceFileItems struct {
	fileID source.FileID
	items  *arena.Arena[syntax.NodePtr]
	byPtr  map[syntax.NodePtr]ItemID
}

// NewSourceFileItems scans tree in pre-order and indexes every item node.
func NewSourceFileItems(fileID source.FileID, tree *syntax.Tree) *SourceFileItems {
	sfi := &SourceFileItems{
		fileID: fileID,
		items:  arena.New[syntax.NodePtr](16),
		byPtr:  make(map[syntax.NodePtr]ItemID),
	}
	sfi.scan(tree.Root())
	return sfi
}

func (sfi *SourceFileItems) scan(node *sitter.Node) {
	if syntax.IsItem(node.Kind()) {
		ptr := syntax.NewNodePtr(node)
		id := ItemID(sfi.items.Allocate(ptr))
		sfi.byPtr[ptr] = id
	}
	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		sfi.scan(node.NamedChild(i))
	}
}

// FileID returns the file this index belongs to.
func (sfi *SourceFileItems) FileID() source.FileID {
	return sfi.fileID
}

// IDOf returns the ItemID for the item node. Panics when node is not an
// indexed item of this file: the caller handed a node from a different
// tree or a non-item node, which is a bug.
func (sfi *SourceFileItems) IDOf(node *sitter.Node) ItemID {
	id, ok := sfi.byPtr[syntax.NewNodePtr(node)]
	if !ok {
		panic(fmt.Sprintf("node %s@%s is not an indexed item", node.Kind(), syntax.NodeRange(node)))
	}
	return id
}

// SyntaxPtr returns the stored pointer for id.
func (sfi *SourceFileItems) SyntaxPtr(id ItemID) syntax.NodePtr {
	ptr := sfi.items.Get(uint32(id))
	if ptr == nil {
		panic(fmt.Sprintf("invalid ItemID %d", id))
	}
	return *ptr
}

// Resolve returns the current tree's node for id.
func (sfi *SourceFileItems) Resolve(id ItemID, tree *syntax.Tree) *sitter.Node {
	return sfi.SyntaxPtr(id).Resolve(tree)
}

func (sfi *SourceFileItems) Len() int {
	return int(sfi.items.Len())
}
