package syntax_test

import (
	"strings"
	"testing"

	"quarry/internal/syntax"
)

func TestParseProducesSourceFileRoot(t *testing.T) {
	tree := syntax.Parse([]byte("fn main() {}"))
	defer tree.Close()
	if got := tree.Root().Kind(); got != syntax.KindSourceFile {
		t.Errorf("root kind = %q", got)
	}
}

func TestParseNeverFailsOnGarbage(t *testing.T) {
	tree := syntax.Parse([]byte("fn } {{ let ??? ="))
	defer tree.Close()
	if tree.Root() == nil {
		t.Fatal("even garbage input must yield a tree")
	}
}

func TestTextReturnsNodeSource(t *testing.T) {
	src := "fn greet() {}"
	tree := syntax.Parse([]byte(src))
	defer tree.Close()
	fn := syntax.FirstChildOfKind(tree.Root(), syntax.KindFunctionItem)
	if fn == nil {
		t.Fatal("no function item")
	}
	name := fn.ChildByFieldName("name")
	if got := tree.Text(name); got != "greet" {
		t.Errorf("Text(name) = %q", got)
	}
}

func TestNodeAtOffsetFindsSmallestNode(t *testing.T) {
	src := "fn main() { let value = 1; }"
	tree := syntax.Parse([]byte(src))
	defer tree.Close()

	offset := uint32(strings.Index(src, "value")) + 1
	node := syntax.NodeAtOffset(tree, offset)
	if node == nil {
		t.Fatal("offset inside the file must hit a node")
	}
	if node.Kind() != syntax.KindIdentifier {
		t.Errorf("expected identifier, got %s", node.Kind())
	}
	if tree.Text(node) != "value" {
		t.Errorf("expected the value identifier, got %q", tree.Text(node))
	}
}

func TestNodeAtOffsetOutsideTree(t *testing.T) {
	tree := syntax.Parse([]byte("fn f() {}"))
	defer tree.Close()
	if node := syntax.NodeAtOffset(tree, 1000); node != nil {
		t.Errorf("expected nil for out-of-range offset, got %s", node.Kind())
	}
}

func TestIsItemCoversDeclarations(t *testing.T) {
	for _, kind := range []string{
		syntax.KindFunctionItem,
		syntax.KindStructItem,
		syntax.KindEnumItem,
		syntax.KindModItem,
		syntax.KindImplItem,
		syntax.KindMacroInvocation,
	} {
		if !syntax.IsItem(kind) {
			t.Errorf("IsItem(%s) = false", kind)
		}
	}
	if syntax.IsItem(syntax.KindBlock) {
		t.Error("block is not an item")
	}
}
