package source

import (
	"path"
	"sort"
)

// SourceRoot groups files that may reference each other by relative path
// (roughly, one package or crate directory). The analyzer never learns the
// root's absolute location; files in different roots cannot address each
// other directly.
type SourceRoot struct {
	files map[string]FileID // relative path -> id
	paths map[FileID]string
}

func NewSourceRoot() *SourceRoot {
	return &SourceRoot{
		files: make(map[string]FileID),
		paths: make(map[FileID]string),
	}
}

// Insert registers a file under its root-relative path.
func (root *SourceRoot) Insert(relPath string, id FileID) {
	clean := path.Clean(relPath)
	root.files[clean] = id
	root.paths[id] = clean
}

// Resolve returns the FileID registered for the relative path.
func (root *SourceRoot) Resolve(relPath string) (FileID, bool) {
	id, ok := root.files[path.Clean(relPath)]
	return id, ok
}

// PathOf returns the root-relative path a file was registered under.
func (root *SourceRoot) PathOf(id FileID) (string, bool) {
	p, ok := root.paths[id]
	return p, ok
}

// Files returns root-relative paths in sorted order, for deterministic
// iteration.
func (root *SourceRoot) Files() []string {
	paths := make([]string, 0, len(root.files))
	for p := range root.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (root *SourceRoot) Len() int {
	return len(root.files)
}
