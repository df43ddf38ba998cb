package analysis

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/crates"
	"quarry/internal/hir"
	"quarry/internal/syntax"
)

// ModuleItem is one named declaration visible in a module, as collected
// for the item map.
type ModuleItem struct {
	Name hir.Name
	Kind hir.DefKind
	Def  hir.DefID
}

// ItemMap lists every module's input items for one crate. It is the
// starting point for crate-level name resolution.
type ItemMap struct {
	perModule map[hir.ModuleID][]ModuleItem
}

// Items returns a module's items in declaration order. The caller must
// not mutate the slice.
func (m *ItemMap) Items(module hir.ModuleID) []ModuleItem {
	return m.perModule[module]
}

// InputModuleItems collects the named declarations of one module,
// inlining macro-generated items one level deep. Items produced by a
// macro are addressed at the macro call itself, so navigation lands on
// the call site. Macro calls inside the expansion are not expanded
// further; that recursion is intentionally absent and its results would
// change name resolution if added.
func (db *DB) InputModuleItems(ctx context.Context, crate crates.CrateID, module hir.ModuleID) ([]ModuleItem, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("InputModuleItems/%d/%d", crate, module), func(ctx context.Context) (any, error) {
		tree, scope, fileID, err := db.moduleScope(ctx, crate, module)
		if err != nil {
			return nil, err
		}
		items, err := db.FileItems(ctx, fileID)
		if err != nil {
			return nil, err
		}
		rootID, _ := db.RootOfFile(fileID)

		var out []ModuleItem
		collect := func(itemNode *sitter.Node) {
			loc := hir.DefLoc{
				Kind:         defKindForItem(itemNode.Kind()),
				SourceRootID: rootID,
				ModuleID:     module,
				SourceItemID: hir.SourceItemID{FileID: fileID, ItemID: items.IDOf(itemNode)},
			}
			if itemNode.Kind() == syntax.KindMacroInvocation {
				for _, expanded := range expandMacroOnce(tree, itemNode) {
					out = append(out, ModuleItem{
						Name: expanded.name,
						Kind: expanded.kind,
						Def:  db.defs.Intern(loc),
					})
				}
				return
			}
			name := itemName(tree, itemNode)
			if name.IsMissing() {
				return
			}
			out = append(out, ModuleItem{Name: name, Kind: loc.Kind, Def: db.defs.Intern(loc)})
		}
		collectModuleItems(scope, collect)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]ModuleItem), nil
}

// ItemMap builds the per-module item listing for a whole crate. This is
// the broadest query in the database; its construction time is recorded
// on the installed timer.
func (db *DB) ItemMap(ctx context.Context, crate crates.CrateID) (*ItemMap, error) {
	value, err := db.cache.GetOrCompute(ctx, fmt.Sprintf("ItemMap/%d", crate), func(ctx context.Context) (any, error) {
		var phase int
		if t := db.currentTimer(); t != nil {
			phase = t.Begin("item-map")
			defer func() {
				t.End(phase, fmt.Sprintf("crate %d", crate))
			}()
		}

		modTree, err := db.ModuleTree(ctx, crate)
		if err != nil {
			return nil, err
		}
		m := &ItemMap{perModule: make(map[hir.ModuleID][]ModuleItem)}
		var walkErr error
		modTree.ForEach(func(module hir.ModuleID) {
			if walkErr != nil {
				return
			}
			if err := ctx.Err(); err != nil {
				walkErr = err
				return
			}
			items, err := db.InputModuleItems(ctx, crate, module)
			if err != nil {
				walkErr = err
				return
			}
			m.perModule[module] = items
		})
		if walkErr != nil {
			return nil, walkErr
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*ItemMap), nil
}

// collectModuleItems walks a module scope for direct item declarations,
// stopping at nested inline modules.
func collectModuleItems(scope *sitter.Node, visit func(*sitter.Node)) {
	for _, child := range syntax.NamedChildren(scope) {
		if syntax.IsItem(child.Kind()) {
			visit(child)
			continue
		}
		collectModuleItems(child, visit)
	}
}

func itemName(tree *syntax.Tree, itemNode *sitter.Node) hir.Name {
	if nameNode := itemNode.ChildByFieldName("name"); nameNode != nil {
		return hir.Name(tree.Text(nameNode))
	}
	return hir.MissingName()
}

func defKindForItem(kind string) hir.DefKind {
	switch kind {
	case syntax.KindFunctionItem:
		return hir.DefKindFunction
	case syntax.KindStructItem:
		return hir.DefKindStruct
	case syntax.KindEnumItem:
		return hir.DefKindEnum
	case syntax.KindModItem:
		return hir.DefKindModule
	case syntax.KindMacroInvocation:
		return hir.DefKindMacroCall
	default:
		return hir.DefKindItem
	}
}

type expandedItem struct {
	name hir.Name
	kind hir.DefKind
}

// expandMacroOnce reparses a macro call's token tree as a standalone
// fragment and lists the items it declares. One level only.
func expandMacroOnce(tree *syntax.Tree, macroCall *sitter.Node) []expandedItem {
	tokens := syntax.FirstChildOfKind(macroCall, syntax.KindTokenTree)
	if tokens == nil {
		return nil
	}
	text := tree.Text(tokens)
	if len(text) >= 2 {
		// Strip the delimiters of the token tree.
		text = text[1 : len(text)-1]
	}
	fragment := syntax.Parse([]byte(text))
	defer fragment.Close()

	var out []expandedItem
	collectModuleItems(fragment.Root(), func(itemNode *sitter.Node) {
		if itemNode.Kind() == syntax.KindMacroInvocation {
			return
		}
		name := itemName(fragment, itemNode)
		if name.IsMissing() {
			return
		}
		out = append(out, expandedItem{name: name, kind: defKindForItem(itemNode.Kind())})
	})
	return out
}
