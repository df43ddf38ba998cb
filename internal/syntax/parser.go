// Package syntax wraps the tree-sitter Rust grammar behind the small
// concrete-syntax surface the analyzer core consumes: immutable parsed
// trees whose nodes expose a kind, a byte range, and parent/child
// navigation, plus position-independent node pointers resolvable against
// any structurally compatible tree.
package syntax

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var rustLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_rust.Language())
})

// Tree is one immutable parse of a file's content. It owns both the source
// bytes and the underlying tree-sitter tree; nodes handed out by Root stay
// valid for the lifetime of the Tree.
type Tree struct {
	src []byte
	ts  *sitter.Tree
}

// Parse parses content as Rust source. Parsing never fails: syntax errors
// become error nodes inside the tree and are degraded to Missing during
// lowering.
func Parse(content []byte) *Tree {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rustLanguage())

	ts := parser.Parse(content, nil)
	return &Tree{src: content, ts: ts}
}

// Root returns the tree's source_file node.
func (t *Tree) Root() *sitter.Node {
	return t.ts.RootNode()
}

// Source returns the exact bytes this tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// Text returns the source text covered by node.
func (t *Tree) Text(node *sitter.Node) string {
	return string(t.src[node.StartByte():node.EndByte()])
}

// Close releases the underlying tree-sitter allocation. Only the owner of
// the Tree (the parse query) calls this; shared readers never do.
func (t *Tree) Close() {
	t.ts.Close()
}
