package syntax

import (
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/source"
)

// NodeRange returns the byte range covered by node.
func NodeRange(node *sitter.Node) source.TextRange {
	start, err := safecast.Conv[uint32](node.StartByte())
	if err != nil {
		panic(fmt.Errorf("node start overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](node.EndByte())
	if err != nil {
		panic(fmt.Errorf("node end overflow: %w", err))
	}
	return source.TextRange{Start: start, End: end}
}

// NamedChildren returns node's named children in document order.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	count := node.NamedChildCount()
	children := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		children = append(children, node.NamedChild(i))
	}
	return children
}

// ChildrenOfKind returns node's named children with the given kind, in
// document order.
func ChildrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// FirstChildOfKind returns node's first child (named or not) with the given
// kind, or nil.
func FirstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// Ancestors calls visit for node and each of its ancestors, innermost
// first, until visit returns false or the root is passed.
func Ancestors(node *sitter.Node, visit func(*sitter.Node) bool) {
	for curr := node; curr != nil; curr = curr.Parent() {
		if !visit(curr) {
			return
		}
	}
}

// NodeAtOffset returns the smallest named node whose range contains the
// byte offset, or nil if the offset is outside the tree.
func NodeAtOffset(tree *Tree, offset uint32) *sitter.Node {
	curr := tree.Root()
	if !NodeRange(curr).ContainsOffset(offset) {
		return nil
	}
	for {
		var next *sitter.Node
		count := curr.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := curr.NamedChild(i)
			if NodeRange(child).ContainsOffset(offset) {
				next = child
				break
			}
		}
		if next == nil {
			return curr
		}
		curr = next
	}
}
