package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"quarry/internal/analysis"
	"quarry/internal/crates"
	"quarry/internal/source"
)

// Workspace is a loaded quarry.toml workspace: the populated database
// plus name lookups for its crates and files.
type Workspace struct {
	Dir      string
	Manifest *Manifest
	DB       *analysis.DB

	Roots       []source.SourceRootID
	CrateByName map[string]crates.CrateID
	fileByPath  map[string]source.FileID // workspace-relative, slash-separated
}

// FileByPath resolves a workspace-relative path to its file id.
func (ws *Workspace) FileByPath(relPath string) (source.FileID, bool) {
	id, ok := ws.fileByPath[filepath.ToSlash(filepath.Clean(relPath))]
	return id, ok
}

// Load reads the manifest in dir (or a parent), loads every source file
// under its roots, and fills db with source roots and the crate graph.
// File reads run in parallel; the database fill is sequential so ids stay
// deterministic. A dependency cycle in the manifest surfaces as the crate
// graph's cycle error.
func Load(ctx context.Context, db *analysis.DB, dir string) (*Workspace, error) {
	manifestPath, err := FindManifest(dir)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	wsDir := filepath.Dir(manifestPath)

	ws := &Workspace{
		Dir:         wsDir,
		Manifest:    manifest,
		DB:          db,
		CrateByName: make(map[string]crates.CrateID),
		fileByPath:  make(map[string]source.FileID),
	}

	for i, rootDir := range manifest.Workspace.Roots {
		rootID := source.SourceRootID(i)
		if err := ws.loadRoot(ctx, rootID, rootDir); err != nil {
			return nil, err
		}
		ws.Roots = append(ws.Roots, rootID)
	}

	if err := ws.buildCrateGraph(); err != nil {
		return nil, err
	}
	return ws, nil
}

type loadedFile struct {
	relPath string // relative to the root dir
	wsPath  string // relative to the workspace dir
	content []byte
}

func (ws *Workspace) loadRoot(ctx context.Context, rootID source.SourceRootID, rootDir string) error {
	absRoot := filepath.Join(ws.Dir, rootDir)

	var paths []string
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".rs" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk source root %s: %w", rootDir, err)
	}
	sort.Strings(paths)

	files := make([]loadedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			relPath, err := filepath.Rel(absRoot, path)
			if err != nil {
				return err
			}
			wsPath, err := filepath.Rel(ws.Dir, path)
			if err != nil {
				return err
			}
			files[i] = loadedFile{
				relPath: filepath.ToSlash(relPath),
				wsPath:  filepath.ToSlash(wsPath),
				content: content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	root := source.NewSourceRoot()
	for _, f := range files {
		id := ws.DB.AddFile(f.wsPath, f.content)
		ws.DB.AssignFileToRoot(id, rootID)
		root.Insert(f.relPath, id)
		ws.fileByPath[f.wsPath] = id
	}
	ws.DB.SetSourceRoot(rootID, root)
	return nil
}

func (ws *Workspace) buildCrateGraph() error {
	graph := crates.NewGraph()
	for _, crate := range ws.Manifest.Crates {
		rootFile, ok := ws.FileByPath(crate.Root)
		if !ok {
			return fmt.Errorf("crate %q: root file %q is not under any source root", crate.Name, crate.Root)
		}
		ws.CrateByName[crate.Name] = graph.AddCrateRoot(rootFile)
	}
	for _, crate := range ws.Manifest.Crates {
		from := ws.CrateByName[crate.Name]
		for _, dep := range crate.Deps {
			to := ws.CrateByName[dep.Crate]
			if err := graph.AddDep(from, dep.Name, to); err != nil {
				return fmt.Errorf("crate %q dep %q: %w", crate.Name, dep.Name, err)
			}
		}
	}
	ws.DB.SetCrateGraph(graph)
	return nil
}
