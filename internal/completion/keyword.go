// Package completion offers keyword completions computed on top of the
// analysis database. Only context-sensitive keywords are handled here;
// name-based completion belongs to resolution layers above this one.
package completion

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/analysis"
	"quarry/internal/source"
	"quarry/internal/syntax"
)

// Item is one completion suggestion: the keyword shown to the user and
// the snippet inserted on accept. "$0" marks the final cursor position.
type Item struct {
	Label   string
	Snippet string
}

// Keywords computes the keyword completions applicable at offset in file.
// Outside a function body nothing is offered.
func Keywords(ctx context.Context, db *analysis.DB, file source.FileID, offset uint32) ([]Item, error) {
	tree, err := db.SyntaxTree(ctx, file)
	if err != nil {
		return nil, err
	}
	node := syntax.NodeAtOffset(tree, offset)
	if node == nil {
		return nil, nil
	}
	fn := enclosingFunction(node)
	if fn == nil {
		return nil, nil
	}

	stmt := canBeStmt(node)
	items := []Item{
		{Label: "if", Snippet: "if $0 {}"},
		{Label: "match", Snippet: "match $0 {}"},
		{Label: "while", Snippet: "while $0 {}"},
		{Label: "loop", Snippet: "loop {$0}"},
	}

	if afterIfExpr(tree, node) {
		items = append(items,
			Item{Label: "else", Snippet: "else {$0}"},
			Item{Label: "else if", Snippet: "else if $0 {}"},
		)
	}

	if isInLoopBody(node) {
		items = append(items,
			Item{Label: "continue", Snippet: withSemi("continue", stmt)},
			Item{Label: "break", Snippet: withSemi("break", stmt)},
		)
	}

	items = append(items, Item{Label: "return", Snippet: returnSnippet(fn, stmt)})
	return items, nil
}

func withSemi(kw string, stmt bool) string {
	if stmt {
		return kw + ";"
	}
	return kw
}

// returnSnippet picks among the four return forms: a value placeholder
// only when the function declares a return type, a trailing semicolon
// only at statement position.
func returnSnippet(fn *sitter.Node, stmt bool) string {
	hasValue := fn.ChildByFieldName("return_type") != nil
	switch {
	case hasValue && stmt:
		return "return $0;"
	case hasValue:
		return "return $0"
	case stmt:
		return "return;"
	default:
		return "return"
	}
}

func enclosingFunction(node *sitter.Node) *sitter.Node {
	var fn *sitter.Node
	syntax.Ancestors(node, func(n *sitter.Node) bool {
		if n.Kind() == syntax.KindFunctionItem {
			fn = n
			return false
		}
		return true
	})
	return fn
}

// canBeStmt reports whether the expression under the cursor sits at
// statement position. The tail expression of a block is not a statement;
// it carries the block's value, so completions there must not terminate
// with a semicolon.
func canBeStmt(node *sitter.Node) bool {
	parent := node.Parent()
	for parent != nil {
		switch parent.Kind() {
		case syntax.KindExprStatement:
			return true
		case syntax.KindBlock:
			last := lastNamedChild(parent)
			return last == nil || last.StartByte() != node.StartByte()
		case syntax.KindMatchArm, syntax.KindLetDeclaration, syntax.KindArguments:
			return false
		}
		node = parent
		parent = node.Parent()
	}
	return false
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	count := node.NamedChildCount()
	if count == 0 {
		return nil
	}
	return node.NamedChild(count - 1)
}

// afterIfExpr reports whether the token under the cursor follows a
// completed if expression with only whitespace in between, the position
// where else / else if applies.
func afterIfExpr(tree *syntax.Tree, node *sitter.Node) bool {
	start := node.StartByte()
	src := tree.Source()
	pos := int(start) - 1
	for pos >= 0 && isWhitespace(src[pos]) {
		pos--
	}
	if pos < 0 {
		return false
	}
	prev := syntax.NodeAtOffset(tree, uint32(pos))
	if prev == nil {
		return false
	}
	var ifExpr *sitter.Node
	syntax.Ancestors(prev, func(n *sitter.Node) bool {
		if n.Kind() == syntax.KindIfExpr {
			ifExpr = n
			return false
		}
		return true
	})
	return ifExpr != nil && ifExpr.EndByte() <= start
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isInLoopBody reports whether node sits lexically inside the body of a
// loop, without crossing a function or closure boundary: a closure nested
// in a loop starts a fresh, loopless context.
func isInLoopBody(node *sitter.Node) bool {
	inLoop := false
	syntax.Ancestors(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case syntax.KindFunctionItem, syntax.KindClosureExpr:
			return false
		case syntax.KindLoopExpr, syntax.KindWhileExpr, syntax.KindForExpr:
			body := n.ChildByFieldName("body")
			if body != nil && syntax.NodeRange(body).Contains(syntax.NodeRange(node)) {
				inLoop = true
				return false
			}
		}
		return true
	})
	return inLoop
}
