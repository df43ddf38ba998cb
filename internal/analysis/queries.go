package analysis

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/crates"
	"quarry/internal/hir"
	"quarry/internal/source"
	"quarry/internal/syntax"
)

// SyntaxTree parses a file. Parsing cannot fail on any byte sequence;
// only cancellation or an unknown file id produce an error.
func (db *DB) SyntaxTree(ctx context.Context, file source.FileID) (*syntax.Tree, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("SyntaxTree/%d", file), func(ctx context.Context) (any, error) {
		content, ok := db.FileContent(file)
		if !ok {
			return nil, fmt.Errorf("unknown file id %d", file)
		}
		return syntax.Parse(content), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*syntax.Tree), nil
}

// FileItems builds the per-file item index.
func (db *DB) FileItems(ctx context.Context, file source.FileID) (*hir.SourceFileItems, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("FileItems/%d", file), func(ctx context.Context) (any, error) {
		tree, err := db.SyntaxTree(ctx, file)
		if err != nil {
			return nil, err
		}
		return hir.NewSourceFileItems(file, tree), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.SourceFileItems), nil
}

// FileItemSyntax resolves a source item id back to its current syntax
// node. The whole-file id (no item part) resolves to the root node.
func (db *DB) FileItemSyntax(ctx context.Context, id hir.SourceItemID) (*sitter.Node, error) {
	tree, err := db.SyntaxTree(ctx, id.FileID)
	if err != nil {
		return nil, err
	}
	if !id.ItemID.IsValid() {
		return tree.Root(), nil
	}
	items, err := db.FileItems(ctx, id.FileID)
	if err != nil {
		return nil, err
	}
	return items.Resolve(id.ItemID, tree), nil
}

// ModuleTree builds the module hierarchy of one crate. Submodule files
// resolve within the source root of the crate's root file.
func (db *DB) ModuleTree(ctx context.Context, crate crates.CrateID) (*hir.ModuleTree, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("ModuleTree/%d", crate), func(ctx context.Context) (any, error) {
		rootFile := db.CrateGraph().CrateRoot(crate)
		rootID, ok := db.RootOfFile(rootFile)
		if !ok {
			return nil, fmt.Errorf("crate root file %d is not assigned to a source root", rootFile)
		}
		root, ok := db.SourceRoot(rootID)
		if !ok {
			return nil, fmt.Errorf("unknown source root %d", rootID)
		}

		// Pre-parse every file of the root so tree construction itself
		// stays pure; the loop is also the cancellation checkpoint.
		provider := &snapshotProvider{
			trees: make(map[source.FileID]*syntax.Tree),
			items: make(map[source.FileID]*hir.SourceFileItems),
		}
		for _, relPath := range root.Files() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fileID, _ := root.Resolve(relPath)
			tree, err := db.SyntaxTree(ctx, fileID)
			if err != nil {
				return nil, err
			}
			items, err := db.FileItems(ctx, fileID)
			if err != nil {
				return nil, err
			}
			provider.trees[fileID] = tree
			provider.items[fileID] = items
		}
		return hir.BuildModuleTree(root, rootFile, provider), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.ModuleTree), nil
}

type snapshotProvider struct {
	trees map[source.FileID]*syntax.Tree
	items map[source.FileID]*hir.SourceFileItems
}

func (p *snapshotProvider) SyntaxTree(id source.FileID) *syntax.Tree {
	return p.trees[id]
}

func (p *snapshotProvider) FileItems(id source.FileID) *hir.SourceFileItems {
	return p.items[id]
}

// BodyWithSourceMap lowers the function behind def and returns the body
// together with its syntax maps. Calling it for a definition kind that
// has no body is a caller bug and panics.
func (db *DB) BodyWithSourceMap(ctx context.Context, def hir.DefID) (*hir.BodySourceMap, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("BodyWithSourceMap/%d", def), func(ctx context.Context) (any, error) {
		loc := db.defs.Loc(def)
		if loc.Kind != hir.DefKindFunction {
			panic(fmt.Sprintf("trying to lower body of %s definition %d", loc.Kind, def))
		}
		tree, err := db.SyntaxTree(ctx, loc.SourceItemID.FileID)
		if err != nil {
			return nil, err
		}
		node, err := db.FileItemSyntax(ctx, loc.SourceItemID)
		if err != nil {
			return nil, err
		}
		return hir.LowerFunctionBody(tree, node), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.BodySourceMap), nil
}

// Body returns just the lowered body for def.
func (db *DB) Body(ctx context.Context, def hir.DefID) (*hir.Body, error) {
	mapping, err := db.BodyWithSourceMap(ctx, def)
	if err != nil {
		return nil, err
	}
	return mapping.Body(), nil
}

// FnScopes computes the lexical scopes of the function behind def.
func (db *DB) FnScopes(ctx context.Context, def hir.DefID) (*hir.FnScopes, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("FnScopes/%d", def), func(ctx context.Context) (any, error) {
		body, err := db.Body(ctx, def)
		if err != nil {
			return nil, err
		}
		return hir.NewFnScopes(body), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.FnScopes), nil
}

// StructData extracts the struct shape behind def.
func (db *DB) StructData(ctx context.Context, def hir.DefID) (*hir.StructData, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("StructData/%d", def), func(ctx context.Context) (any, error) {
		loc := db.defs.Loc(def)
		tree, err := db.SyntaxTree(ctx, loc.SourceItemID.FileID)
		if err != nil {
			return nil, err
		}
		node, err := db.FileItemSyntax(ctx, loc.SourceItemID)
		if err != nil {
			return nil, err
		}
		return hir.LowerStructData(tree, node), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.StructData), nil
}

// EnumData extracts the enum shape behind def.
func (db *DB) EnumData(ctx context.Context, def hir.DefID) (*hir.EnumData, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("EnumData/%d", def), func(ctx context.Context) (any, error) {
		loc := db.defs.Loc(def)
		tree, err := db.SyntaxTree(ctx, loc.SourceItemID.FileID)
		if err != nil {
			return nil, err
		}
		node, err := db.FileItemSyntax(ctx, loc.SourceItemID)
		if err != nil {
			return nil, err
		}
		return hir.LowerEnumData(tree, node), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.EnumData), nil
}

// ImplsInModule collects the impl blocks of one module of a crate.
func (db *DB) ImplsInModule(ctx context.Context, crate crates.CrateID, module hir.ModuleID) (*hir.ModuleImplBlocks, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("ImplsInModule/%d/%d", crate, module), func(ctx context.Context) (any, error) {
		tree, scope, fileID, err := db.moduleScope(ctx, crate, module)
		if err != nil {
			return nil, err
		}
		items, err := db.FileItems(ctx, fileID)
		if err != nil {
			return nil, err
		}
		rootID, _ := db.RootOfFile(fileID)
		return hir.CollectModuleImpls(tree, scope, items, db.defs, rootID, module), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*hir.ModuleImplBlocks), nil
}

// moduleScope resolves a module to its defining syntax scope: the file
// root for file modules, the mod_item's body for inline modules.
func (db *DB) moduleScope(ctx context.Context, crate crates.CrateID, module hir.ModuleID) (*syntax.Tree, *sitter.Node, source.FileID, error) {
	modTree, err := db.ModuleTree(ctx, crate)
	if err != nil {
		return nil, nil, 0, err
	}
	src := modTree.Source(module)
	tree, err := db.SyntaxTree(ctx, src.FileID)
	if err != nil {
		return nil, nil, 0, err
	}
	if !src.IsInline() {
		return tree, tree.Root(), src.FileID, nil
	}
	items, err := db.FileItems(ctx, src.FileID)
	if err != nil {
		return nil, nil, 0, err
	}
	modNode := items.Resolve(src.Item, tree)
	body := modNode.ChildByFieldName("body")
	if body == nil {
		body = modNode
	}
	return tree, body, src.FileID, nil
}

// LookupFunction finds a top-level or nested function item by name in a
// file and interns a definition for it. The module is resolved when the
// file belongs to a known crate's module tree.
func (db *DB) LookupFunction(ctx context.Context, file source.FileID, name string) (hir.DefID, bool, error) {
	return db.lookupItem(ctx, file, name, syntax.KindFunctionItem, hir.DefKindFunction)
}

// LookupStruct finds a struct item by name in a file.
func (db *DB) LookupStruct(ctx context.Context, file source.FileID, name string) (hir.DefID, bool, error) {
	return db.lookupItem(ctx, file, name, syntax.KindStructItem, hir.DefKindStruct)
}

// LookupEnum finds an enum item by name in a file.
func (db *DB) LookupEnum(ctx context.Context, file source.FileID, name string) (hir.DefID, bool, error) {
	return db.lookupItem(ctx, file, name, syntax.KindEnumItem, hir.DefKindEnum)
}

func (db *DB) lookupItem(ctx context.Context, file source.FileID, name, kind string, defKind hir.DefKind) (hir.DefID, bool, error) {
	tree, err := db.SyntaxTree(ctx, file)
	if err != nil {
		return hir.NoDefID, false, err
	}
	items, err := db.FileItems(ctx, file)
	if err != nil {
		return hir.NoDefID, false, err
	}

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
		return hir.NoDefID, false, nil
	}

	rootID, _ := db.RootOfFile(file)
	module := db.moduleOfFile(ctx, file)
	def := db.defs.Intern(hir.DefLoc{
		Kind:         defKind,
		SourceRootID: rootID,
		ModuleID:     module,
		SourceItemID: hir.SourceItemID{FileID: file, ItemID: items.IDOf(found)},
	})
	return def, true, nil
}

// ModuleForFile finds which crate and module a file backs, scanning every
// crate's module tree.
func (db *DB) ModuleForFile(ctx context.Context, file source.FileID) (crates.CrateID, hir.ModuleID, bool, error) {
	graph := db.CrateGraph()
	for crate := crates.CrateID(0); int(crate) < graph.Len(); crate++ {
		tree, err := db.ModuleTree(ctx, crate)
		if err != nil {
			return 0, hir.NoModuleID, false, err
		}
		if module, ok := tree.ModuleForFile(file); ok {
			return crate, module, true, nil
		}
	}
	return 0, hir.NoModuleID, false, nil
}

// moduleOfFile is ModuleForFile without error reporting, defaulting to
// NoModuleID for files outside every crate.
func (db *DB) moduleOfFile(ctx context.Context, file source.FileID) hir.ModuleID {
	_, module, ok, err := db.ModuleForFile(ctx, file)
	if err != nil || !ok {
		return hir.NoModuleID
	}
	return module
}
