package hir

import (
	"path"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/arena"
	"quarry/internal/source"
	"quarry/internal/syntax"
)

// ModuleSource is the syntax a module originates from: a whole file for
// file modules, or a mod_item for inline modules.
type ModuleSource struct {
	FileID source.FileID
	Item   ItemID // NoItemID means the file's root module
}

// IsInline reports whether the module is declared with a braced body
// rather than its own file.
func (s ModuleSource) IsInline() bool {
	return s.Item.IsValid()
}

// ModuleLink is a named child edge in the module tree.
type ModuleLink struct {
	Name   Name
	Module ModuleID
}

type moduleData struct {
	name     Name
	src      ModuleSource
	parent   ModuleID
	children []ModuleLink
}

// ModuleTree is the module hierarchy of one crate within one source root.
// `mod x;` declarations resolve to sibling files (x.rs, then x/mod.rs);
// unresolved declarations are dropped. Inline modules share their parent's
// file.
type ModuleTree struct {
	modules *arena.Arena[moduleData]
	byFile  map[source.FileID]ModuleID // file modules only
	root    ModuleID
}

// Root returns the crate root module.
func (t *ModuleTree) Root() ModuleID {
	return t.root
}

// Name returns the module's declared name; the crate root has no name.
func (t *ModuleTree) Name(id ModuleID) Name {
	return t.data(id).name
}

// Source returns the syntax the module originates from.
func (t *ModuleTree) Source(id ModuleID) ModuleSource {
	return t.data(id).src
}

// Parent returns the parent module, or NoModuleID for the crate root.
func (t *ModuleTree) Parent(id ModuleID) ModuleID {
	return t.data(id).parent
}

// Children returns the module's named children in declaration order. The
// caller must not mutate the slice.
func (t *ModuleTree) Children(id ModuleID) []ModuleLink {
	return t.data(id).children
}

// Child resolves one child by name.
func (t *ModuleTree) Child(id ModuleID, name Name) (ModuleID, bool) {
	for _, link := range t.data(id).children {
		if link.Name == name {
			return link.Module, true
		}
	}
	return NoModuleID, false
}

// ModuleForFile returns the file module backed by the given file, if the
// file is part of this crate's module tree.
func (t *ModuleTree) ModuleForFile(id source.FileID) (ModuleID, bool) {
	m, ok := t.byFile[id]
	return m, ok
}

// Len reports the total number of modules.
func (t *ModuleTree) Len() int {
	return int(t.modules.Len())
}

// ForEach visits every module in allocation order, which is a pre-order
// walk from the crate root.
func (t *ModuleTree) ForEach(visit func(ModuleID)) {
	for i := uint32(1); i <= t.modules.Len(); i++ {
		visit(ModuleID(i))
	}
}

func (t *ModuleTree) data(id ModuleID) *moduleData {
	d := t.modules.Get(uint32(id))
	if d == nil {
		panic("invalid ModuleID")
	}
	return d
}

// FileProvider supplies parsed trees and item indexes while the module
// tree is assembled.
type FileProvider interface {
	SyntaxTree(id source.FileID) *syntax.Tree
	FileItems(id source.FileID) *SourceFileItems
}

// BuildModuleTree assembles the module tree of the crate rooted at
// crateRoot. Files are located through root; missing submodule files are
// skipped silently, matching how an editor session sees a half-written
// crate.
func BuildModuleTree(root *source.SourceRoot, crateRoot source.FileID, files FileProvider) *ModuleTree {
	t := &ModuleTree{
		modules: arena.New[moduleData](8),
		byFile:  make(map[source.FileID]ModuleID),
	}
	b := &moduleTreeBuilder{tree: t, root: root, files: files}
	t.root = b.addFileModule("", NoModuleID, crateRoot)
	return t
}

type moduleTreeBuilder struct {
	tree  *ModuleTree
	root  *source.SourceRoot
	files FileProvider
}

func (b *moduleTreeBuilder) alloc(d moduleData) ModuleID {
	return ModuleID(b.tree.modules.Allocate(d))
}

func (b *moduleTreeBuilder) addFileModule(name Name, parent ModuleID, fileID source.FileID) ModuleID {
	id := b.alloc(moduleData{
		name:   name,
		src:    ModuleSource{FileID: fileID},
		parent: parent,
	})
	b.tree.byFile[fileID] = id

	syntaxTree := b.files.SyntaxTree(fileID)
	b.collectSubmodules(id, fileID, syntaxTree, syntaxTree.Root())
	return id
}

func (b *moduleTreeBuilder) addInlineModule(name Name, parent ModuleID, fileID source.FileID, item ItemID, body *sitter.Node) ModuleID {
	id := b.alloc(moduleData{
		name:   name,
		src:    ModuleSource{FileID: fileID, Item: item},
		parent: parent,
	})
	b.collectSubmodules(id, fileID, b.files.SyntaxTree(fileID), body)
	return id
}

// collectSubmodules walks scope for mod_items belonging directly to the
// module (not those inside nested inline modules, which the recursion
// handles itself).
func (b *moduleTreeBuilder) collectSubmodules(parent ModuleID, fileID source.FileID, tree *syntax.Tree, scope *sitter.Node) {
	for _, child := range syntax.NamedChildren(scope) {
		if child.Kind() != syntax.KindModItem {
			if !syntax.IsItem(child.Kind()) {
				b.collectSubmodules(parent, fileID, tree, child)
			}
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := Name(tree.Text(nameNode))

		if body := child.ChildByFieldName("body"); body != nil {
			item := b.files.FileItems(fileID).IDOf(child)
			childID := b.addInlineModule(name, parent, fileID, item, body)
			b.link(parent, name, childID)
			continue
		}

		subFile, ok := b.resolveSubmoduleFile(fileID, string(name))
		if !ok {
			continue
		}
		if _, seen := b.tree.byFile[subFile]; seen {
			// `mod lib;` inside lib.rs resolves to the declaring file
			// itself. A file already in the tree is dropped like an
			// unresolved declaration; descending again would never
			// terminate.
			continue
		}
		childID := b.addFileModule(name, parent, subFile)
		b.link(parent, name, childID)
	}
}

func (b *moduleTreeBuilder) link(parent ModuleID, name Name, child ModuleID) {
	d := b.tree.data(parent)
	d.children = append(d.children, ModuleLink{Name: name, Module: child})
}

// resolveSubmoduleFile finds the file behind `mod name;`: name.rs first,
// then name/mod.rs. A crate root or mod.rs looks in its own directory;
// any other file looks in a directory named after itself.
func (b *moduleTreeBuilder) resolveSubmoduleFile(declaringFile source.FileID, name string) (source.FileID, bool) {
	declPath, ok := b.root.PathOf(declaringFile)
	if !ok {
		return 0, false
	}
	dir := path.Dir(declPath)

	base := path.Base(declPath)
	if base != "mod.rs" && base != "lib.rs" && base != "main.rs" {
		// foo.rs declares mod bar; -> foo/bar.rs
		dir = path.Join(dir, trimRustExt(base))
	}

	if id, ok := b.root.Resolve(path.Join(dir, name+".rs")); ok {
		return id, true
	}
	if id, ok := b.root.Resolve(path.Join(dir, name, "mod.rs")); ok {
		return id, true
	}
	return 0, false
}

func trimRustExt(base string) string {
	if ext := path.Ext(base); ext == ".rs" {
		return base[:len(base)-len(ext)]
	}
	return base
}
