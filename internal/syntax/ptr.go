package syntax

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/source"
)

// NodePtr is a position-independent pointer to a syntax node inside one
// file: the node's byte range plus its kind. Two pointers are equal iff
// both match, which makes NodePtr usable as a map key. A pointer created
// against one parse of a file resolves against any structurally compatible
// reparse, so IR derived from an old tree survives whitespace-only edits
// without pinning the old tree in memory.
type NodePtr struct {
	Range source.TextRange
	Kind  string
}

// NewNodePtr captures node's range and kind. O(1).
func NewNodePtr(node *sitter.Node) NodePtr {
	return NodePtr{
		Range: NodeRange(node),
		Kind:  node.Kind(),
	}
}

// Resolve walks tree from the root, descending at each level into the
// child whose range contains the pointer's range, until range and kind
// both match. It panics if no node matches: the tree does not correspond
// to the tree the pointer was created from, which is a caller bug, not a
// recoverable condition.
func (p NodePtr) Resolve(tree *Tree) *sitter.Node {
	curr := tree.Root()
	for {
		if NodeRange(curr) == p.Range && curr.Kind() == p.Kind {
			return curr
		}
		var next *sitter.Node
		count := curr.ChildCount()
		for i := uint(0); i < count; i++ {
			child := curr.Child(i)
			if NodeRange(child).Contains(p.Range) {
				next = child
				break
			}
		}
		if next == nil {
			panic(fmt.Sprintf("can't resolve node ptr %v in tree", p))
		}
		curr = next
	}
}

func (p NodePtr) String() string {
	return fmt.Sprintf("%s@%s", p.Kind, p.Range)
}
