package hir_test

import (
	"testing"

	"quarry/internal/hir"
	"quarry/internal/syntax"
)

const itemsFixture = `
use std::fmt;

struct Widget { id: u32 }

impl Widget {
    fn id(&self) -> u32 { self.id }
    const MAX: u32 = 16;
}

mod inner {
    fn helper() {}
}

fn top() {}
`

func TestFileItemsIndexesDeclarationsInPreOrder(t *testing.T) {
	tree := syntax.Parse([]byte(itemsFixture))
	defer tree.Close()
	items := hir.NewSourceFileItems(3, tree)

	if items.FileID() != 3 {
		t.Errorf("FileID = %d", items.FileID())
	}
	// use, struct, impl, fn id, const MAX, mod inner, fn helper, fn top.
	if items.Len() != 8 {
		t.Fatalf("expected 8 items, got %d", items.Len())
	}

	wantKinds := []string{
		syntax.KindUseDeclaration,
		syntax.KindStructItem,
		syntax.KindImplItem,
		syntax.KindFunctionItem,
		syntax.KindConstItem,
		syntax.KindModItem,
		syntax.KindFunctionItem,
		syntax.KindFunctionItem,
	}
	for i, want := range wantKinds {
		ptr := items.SyntaxPtr(hir.ItemID(i + 1))
		if ptr.Kind != want {
			t.Errorf("item %d: kind %s, want %s", i+1, ptr.Kind, want)
		}
	}
}

func TestIDOfRoundTripsThroughResolve(t *testing.T) {
	tree := syntax.Parse([]byte(itemsFixture))
	defer tree.Close()
	items := hir.NewSourceFileItems(0, tree)

	for i := 1; i <= items.Len(); i++ {
		id := hir.ItemID(i)
		node := items.Resolve(id, tree)
		if got := items.IDOf(node); got != id {
			t.Errorf("item %d: IDOf(Resolve(id)) = %d", id, got)
		}
	}
}

func TestIDOfPanicsForNonItem(t *testing.T) {
	tree := syntax.Parse([]byte(itemsFixture))
	defer tree.Close()
	items := hir.NewSourceFileItems(0, tree)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a non-item node")
		}
	}()
	items.IDOf(tree.Root())
}

func TestSyntaxPtrPanicsOnInvalidID(t *testing.T) {
	tree := syntax.Parse([]byte("fn only() {}"))
	defer tree.Close()
	items := hir.NewSourceFileItems(0, tree)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range ItemID")
		}
	}()
	items.SyntaxPtr(hir.ItemID(99))
}
