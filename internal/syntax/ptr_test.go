package syntax_test

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/syntax"
)

const ptrFixture = `
struct Point { x: i32, y: i32 }

fn length(p: &Point) -> i32 {
    let dx = p.x;
    let dy = p.y;
    dx * dx + dy * dy
}
`

// Every named node's pointer must resolve back to the node it was made
// from, against the same tree.
func TestNodePtrRoundTripsForEveryNode(t *testing.T) {
	tree := syntax.Parse([]byte(ptrFixture))
	defer tree.Close()

	var checked int
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		ptr := syntax.NewNodePtr(node)
		got := ptr.Resolve(tree)
		if got.Kind() != node.Kind() || got.StartByte() != node.StartByte() || got.EndByte() != node.EndByte() {
			t.Errorf("pointer %s resolved to %s@%d-%d", ptr, got.Kind(), got.StartByte(), got.EndByte())
		}
		checked++
		for _, child := range syntax.NamedChildren(node) {
			walk(child)
		}
	}
	walk(tree.Root())
	if checked < 10 {
		t.Fatalf("fixture too trivial, only %d nodes checked", checked)
	}
}

func TestNodePtrSurvivesReparseOfIdenticalText(t *testing.T) {
	first := syntax.Parse([]byte(ptrFixture))
	defer first.Close()
	second := syntax.Parse([]byte(ptrFixture))
	defer second.Close()

	fn := syntax.FirstChildOfKind(first.Root(), syntax.KindFunctionItem)
	if fn == nil {
		t.Fatal("no function in fixture")
	}
	ptr := syntax.NewNodePtr(fn)
	got := ptr.Resolve(second)
	if got.Kind() != syntax.KindFunctionItem {
		t.Errorf("resolved to %s", got.Kind())
	}
}

func TestNodePtrPanicsOnIncompatibleTree(t *testing.T) {
	tree := syntax.Parse([]byte(ptrFixture))
	defer tree.Close()
	other := syntax.Parse([]byte("fn unrelated() {}"))
	defer other.Close()

	fn := syntax.FirstChildOfKind(tree.Root(), syntax.KindStructItem)
	if fn == nil {
		t.Fatal("no struct in fixture")
	}
	ptr := syntax.NewNodePtr(fn)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic resolving against an incompatible tree")
		}
	}()
	ptr.Resolve(other)
}

func TestNodePtrEquality(t *testing.T) {
	tree := syntax.Parse([]byte(ptrFixture))
	defer tree.Close()

	fn := syntax.FirstChildOfKind(tree.Root(), syntax.KindFunctionItem)
	a := syntax.NewNodePtr(fn)
	b := syntax.NewNodePtr(fn)
	if a != b {
		t.Error("pointers to the same node must compare equal")
	}
	st := syntax.FirstChildOfKind(tree.Root(), syntax.KindStructItem)
	if a == syntax.NewNodePtr(st) {
		t.Error("pointers to different nodes must differ")
	}
}
