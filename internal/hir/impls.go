package hir

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/arena"
	"quarry/internal/source"
	"quarry/internal/syntax"
)

// ImplItemKind classifies the associated items of an impl block.
type ImplItemKind uint8

const (
	ImplMethod ImplItemKind = iota
	ImplConst
	ImplTypeAlias
)

func (k ImplItemKind) String() string {
	switch k {
	case ImplMethod:
		return "method"
	case ImplConst:
		return "const"
	case ImplTypeAlias:
		return "type"
	default:
		return "unknown"
	}
}

// ImplItem is one associated item of an impl block, identified by its
// interned definition.
type ImplItem struct {
	Kind ImplItemKind
	Def  DefID
}

// ImplData describes one impl block: the type it targets, the trait it
// implements if any, and its associated items.
type ImplData struct {
	TargetType  TypeRef
	TargetTrait *TypeRef
	Items       []ImplItem
}

// ModuleImplBlocks indexes every impl block of one module. Each impl gets
// a dense ImplID, and every associated item's definition maps back to its
// containing impl.
type ModuleImplBlocks struct {
	impls *arena.Arena[ImplData]
	byDef map[DefID]ImplID
}

// Impl returns the data for id. Asking for an id this index never handed
// out is a caller bug.
func (m *ModuleImplBlocks) Impl(id ImplID) *ImplData {
	data := m.impls.Get(uint32(id))
	if data == nil {
		panic("invalid ImplID")
	}
	return data
}

// ImplForDef returns the impl block containing def, if any.
func (m *ModuleImplBlocks) ImplForDef(def DefID) (ImplID, bool) {
	id, ok := m.byDef[def]
	return id, ok
}

// Len reports the number of indexed impl blocks.
func (m *ModuleImplBlocks) Len() int {
	return int(m.impls.Len())
}

// ForEach visits every impl block in allocation order.
func (m *ModuleImplBlocks) ForEach(visit func(ImplID, *ImplData)) {
	slice := m.impls.Slice()
	for i := range slice {
		visit(ImplID(i+1), &slice[i])
	}
}

// CollectModuleImpls scans one module's syntax scope for impl blocks.
// scope is the source_file node for a file module, or the mod_item's
// declaration_list for an inline module; nested modules are not entered,
// their impls belong to them.
func CollectModuleImpls(
	tree *syntax.Tree,
	scope *sitter.Node,
	items *SourceFileItems,
	interner *DefInterner,
	sourceRoot source.SourceRootID,
	module ModuleID,
) *ModuleImplBlocks {
	m := &ModuleImplBlocks{
		impls: arena.New[ImplData](4),
		byDef: make(map[DefID]ImplID),
	}
	collectImplsIn(tree, scope, items, interner, sourceRoot, module, m)
	return m
}

func collectImplsIn(
	tree *syntax.Tree,
	node *sitter.Node,
	items *SourceFileItems,
	interner *DefInterner,
	sourceRoot source.SourceRootID,
	module ModuleID,
	out *ModuleImplBlocks,
) {
	for _, child := range syntax.NamedChildren(node) {
		switch child.Kind() {
		case syntax.KindImplItem:
			lowerImplBlock(tree, child, items, interner, sourceRoot, module, out)
		case syntax.KindModItem:
			// Nested module boundary.
		default:
			collectImplsIn(tree, child, items, interner, sourceRoot, module, out)
		}
	}
}

func lowerImplBlock(
	tree *syntax.Tree,
	implNode *sitter.Node,
	items *SourceFileItems,
	interner *DefInterner,
	sourceRoot source.SourceRootID,
	module ModuleID,
	out *ModuleImplBlocks,
) {
	data := ImplData{TargetType: PlaceholderTypeRef()}
	if typeNode := implNode.ChildByFieldName("type"); typeNode != nil {
		data.TargetType = TypeRef{Text: tree.Text(typeNode)}
	}
	if traitNode := implNode.ChildByFieldName("trait"); traitNode != nil {
		ref := TypeRef{Text: tree.Text(traitNode)}
		data.TargetTrait = &ref
	}

	if body := implNode.ChildByFieldName("body"); body != nil {
		for _, member := range syntax.NamedChildren(body) {
			var kind ImplItemKind
			var defKind DefKind
			switch member.Kind() {
			case syntax.KindFunctionItem:
				kind, defKind = ImplMethod, DefKindFunction
			case syntax.KindConstItem:
				kind, defKind = ImplConst, DefKindItem
			case syntax.KindTypeItem:
				kind, defKind = ImplTypeAlias, DefKindItem
			default:
				continue
			}
			def := interner.Intern(DefLoc{
				Kind:         defKind,
				SourceRootID: sourceRoot,
				ModuleID:     module,
				SourceItemID: SourceItemID{FileID: items.FileID(), ItemID: items.IDOf(member)},
			})
			data.Items = append(data.Items, ImplItem{Kind: kind, Def: def})
		}
	}

	id := ImplID(out.impls.Allocate(data))
	for _, item := range data.Items {
		out.byDef[item.Def] = id
	}
}
