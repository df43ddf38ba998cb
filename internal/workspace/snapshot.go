package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// FileFingerprint records what one file looked like when the snapshot
// was taken.
type FileFingerprint struct {
	Path string // workspace-relative
	Hash uint64
	Size int64
}

// Snapshot is the on-disk record of a workspace's file state. It lives in
// the user cache dir and only feeds change reporting in the CLI; the
// analysis core never reads it.
type Snapshot struct {
	Schema uint16
	Files  []FileFingerprint
}

// TakeSnapshot fingerprints every loaded file of the workspace.
func TakeSnapshot(ws *Workspace) *Snapshot {
	snap := &Snapshot{Schema: snapshotSchemaVersion}
	paths := make([]string, 0, len(ws.fileByPath))
	for p := range ws.fileByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		id := ws.fileByPath[p]
		content, ok := ws.DB.FileContent(id)
		if !ok {
			continue
		}
		snap.Files = append(snap.Files, FileFingerprint{
			Path: p,
			Hash: xxh3.Hash(content),
			Size: int64(len(content)),
		})
	}
	return snap
}

// Diff compares a previous snapshot against the current one and returns
// the workspace-relative paths that were added, changed, or removed.
func (s *Snapshot) Diff(prev *Snapshot) (changed []string) {
	if prev == nil {
		for _, f := range s.Files {
			changed = append(changed, f.Path)
		}
		return changed
	}
	old := make(map[string]FileFingerprint, len(prev.Files))
	for _, f := range prev.Files {
		old[f.Path] = f
	}
	seen := make(map[string]bool, len(s.Files))
	for _, f := range s.Files {
		seen[f.Path] = true
		if prevF, ok := old[f.Path]; !ok || prevF.Hash != f.Hash || prevF.Size != f.Size {
			changed = append(changed, f.Path)
		}
	}
	for _, f := range prev.Files {
		if !seen[f.Path] {
			changed = append(changed, f.Path)
		}
	}
	sort.Strings(changed)
	return changed
}

// snapshotPath places the snapshot under the XDG cache dir, keyed by a
// hash of the workspace directory so workspaces do not collide.
func snapshotPath(wsDir string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "quarry")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	key := xxh3.HashString(wsDir)
	return filepath.Join(dir, fmt.Sprintf("snapshot-%016x.mp", key)), nil
}

// SaveSnapshot writes the snapshot for the workspace atomically.
func SaveSnapshot(ws *Workspace, snap *Snapshot) error {
	p, err := snapshotPath(ws.Dir)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// LoadSnapshot reads the previous snapshot for the workspace. A missing
// file or a schema mismatch reads as "no snapshot", not an error.
func LoadSnapshot(ws *Workspace) (*Snapshot, error) {
	p, err := snapshotPath(ws.Dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, nil
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, nil
	}
	return &snap, nil
}
