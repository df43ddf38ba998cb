package hir_test

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/hir"
	"quarry/internal/syntax"
)

func findItem(t *testing.T, tree *syntax.Tree, kind, name string) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if found != nil {
			return
		}
		if node.Kind() == kind {
			if nameNode := node.ChildByFieldName("name"); nameNode != nil && tree.Text(nameNode) == name {
				found = node
				return
			}
		}
		for _, child := range syntax.NamedChildren(node) {
			walk(child)
		}
	}
	walk(tree.Root())
	if found == nil {
		t.Fatalf("no %s named %q in fixture", kind, name)
	}
	return found
}

func TestLowerRecordStruct(t *testing.T) {
	tree := syntax.Parse([]byte(`
struct Server {
    pub host: String,
    port: u16,
}
`))
	t.Cleanup(tree.Close)

	data := hir.LowerStructData(tree, findItem(t, tree, syntax.KindStructItem, "Server"))
	if data.Name != "Server" {
		t.Errorf("name %q", data.Name)
	}
	if len(data.Fields) != 2 {
		t.Fatalf("fields: %+v", data.Fields)
	}
	if data.Fields[0].Name != "host" || data.Fields[0].Type.Text != "String" {
		t.Errorf("field 0: %+v", data.Fields[0])
	}
	if data.Fields[1].Name != "port" || data.Fields[1].Type.Text != "u16" {
		t.Errorf("field 1: %+v", data.Fields[1])
	}
}

func TestLowerTupleStructUsesPositionalNames(t *testing.T) {
	tree := syntax.Parse([]byte("struct Pair(pub i32, String);\n"))
	t.Cleanup(tree.Close)

	data := hir.LowerStructData(tree, findItem(t, tree, syntax.KindStructItem, "Pair"))
	if len(data.Fields) != 2 {
		t.Fatalf("fields: %+v", data.Fields)
	}
	if data.Fields[0].Name != "0" || data.Fields[0].Type.Text != "i32" {
		t.Errorf("field 0: %+v", data.Fields[0])
	}
	if data.Fields[1].Name != "1" || data.Fields[1].Type.Text != "String" {
		t.Errorf("field 1: %+v", data.Fields[1])
	}
}

func TestLowerUnitStruct(t *testing.T) {
	tree := syntax.Parse([]byte("struct Marker;\n"))
	t.Cleanup(tree.Close)

	data := hir.LowerStructData(tree, findItem(t, tree, syntax.KindStructItem, "Marker"))
	if data.Name != "Marker" || len(data.Fields) != 0 {
		t.Errorf("unit struct: %+v", data)
	}
}

func TestLowerEnum(t *testing.T) {
	tree := syntax.Parse([]byte(`
enum Event {
    Quit,
    Key(u32),
    Click { x: i32, y: i32 },
}
`))
	t.Cleanup(tree.Close)

	data := hir.LowerEnumData(tree, findItem(t, tree, syntax.KindEnumItem, "Event"))
	if data.Name != "Event" {
		t.Errorf("name %q", data.Name)
	}
	if len(data.Variants) != 3 {
		t.Fatalf("variants: %+v", data.Variants)
	}

	quit := data.Variants[0]
	if quit.Name != "Quit" || len(quit.Fields) != 0 {
		t.Errorf("Quit: %+v", quit)
	}

	key := data.Variants[1]
	if key.Name != "Key" || len(key.Fields) != 1 || key.Fields[0].Name != "0" || key.Fields[0].Type.Text != "u32" {
		t.Errorf("Key: %+v", key)
	}

	click := data.Variants[2]
	if click.Name != "Click" || len(click.Fields) != 2 {
		t.Fatalf("Click: %+v", click)
	}
	if click.Fields[0].Name != "x" || click.Fields[1].Name != "y" {
		t.Errorf("Click fields: %+v", click.Fields)
	}
}
