// Package workspace loads a quarry.toml workspace from disk into the
// analysis database: source roots, file contents, and the crate graph.
// The analysis core itself never touches the filesystem; this package is
// its only doorway to it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the workspace manifest file name.
const ManifestName = "quarry.toml"

// Manifest describes a workspace: which directories form source roots and
// which files are crate roots.
type Manifest struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Crates    []CrateConfig   `toml:"crate"`
}

type WorkspaceConfig struct {
	// Roots are directories, relative to the manifest, whose .rs files
	// form one source root each.
	Roots []string `toml:"roots"`
}

// CrateConfig declares one crate: a name used by dependency edges and the
// workspace-relative path of its root file.
type CrateConfig struct {
	Name string      `toml:"name"`
	Root string      `toml:"root"`
	Deps []DepConfig `toml:"deps"`
}

// DepConfig is a named dependency edge to another crate of the workspace.
type DepConfig struct {
	Name  string `toml:"name"`
	Crate string `toml:"crate"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// FindManifest walks from dir upwards looking for quarry.toml.
func FindManifest(dir string) (string, error) {
	curr, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(curr, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(curr)
		if parent == curr {
			return "", fmt.Errorf("no %s found in %s or any parent", ManifestName, dir)
		}
		curr = parent
	}
}

func (m *Manifest) validate() error {
	if len(m.Workspace.Roots) == 0 {
		return fmt.Errorf("workspace.roots is empty")
	}
	names := make(map[string]bool, len(m.Crates))
	for _, crate := range m.Crates {
		if crate.Name == "" {
			return fmt.Errorf("crate with root %q has no name", crate.Root)
		}
		if crate.Root == "" {
			return fmt.Errorf("crate %q has no root file", crate.Name)
		}
		if names[crate.Name] {
			return fmt.Errorf("duplicate crate name %q", crate.Name)
		}
		names[crate.Name] = true
	}
	for _, crate := range m.Crates {
		for _, dep := range crate.Deps {
			if !names[dep.Crate] {
				return fmt.Errorf("crate %q depends on unknown crate %q", crate.Name, dep.Crate)
			}
		}
	}
	return nil
}
