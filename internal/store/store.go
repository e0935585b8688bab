// Package store keeps captured working-tree diffs as rotating per-branch
// patch files under a single output root. All state (counts, recency,
// which branches exist) is derived from directory listings at query time;
// there is no sidecar metadata.
package store

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Snapshot is one stored diff file belonging to a branch.
type Snapshot struct {
	Branch string
	Name   string
	Label  string
	Taken  time.Time
	Size   int64
}

// Store is a per-branch snapshot collection rooted at a single directory.
// Layout: <root>/<branch>/<YYYYMMDD-HHMMSS>[-<label>].patch, where branch
// names containing slashes map to nested directories verbatim.
type Store struct {
	fs   afero.Fs
	root string
}

// New creates a Store over the real filesystem.
func New(root string) *Store {
	return NewWithFs(afero.NewOsFs(), root)
}

// NewWithFs creates a Store over an arbitrary filesystem.
func NewWithFs(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// Branches returns every branch that has at least one stored snapshot,
// sorted by name. A missing output root means no branches.
func (s *Store) Branches() ([]string, error) {
	seen := make(map[string]bool)

	walkErr := afero.Walk(s.fs, s.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, _, ok := ParseName(info.Name()); !ok {
			return nil
		}
		rel, err := filepath.Rel(s.root, filepath.Dir(p))
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		seen[filepath.ToSlash(rel)] = true
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan snapshot root: %w", walkErr)
	}

	branches := make([]string, 0, len(seen))
	for branch := range seen {
		branches = append(branches, branch)
	}
	sort.Strings(branches)
	return branches, nil
}

// List returns the branch's snapshots ordered oldest to newest. Capture order
// comes from the file names; name order breaks same-second ties. A branch
// with no snapshot directory lists as empty.
func (s *Store) List(branch string) ([]Snapshot, error) {
	dir, err := s.branchDir(branch)
	if err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshots for %s: %w", branch, err)
	}

	var snaps []Snapshot
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		taken, label, ok := ParseName(info.Name())
		if !ok {
			continue
		}
		snaps = append(snaps, Snapshot{
			Branch: branch,
			Name:   info.Name(),
			Label:  label,
			Taken:  taken,
			Size:   info.Size(),
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].Taken.Equal(snaps[j].Taken) {
			return snaps[i].Taken.Before(snaps[j].Taken)
		}
		return snaps[i].Name < snaps[j].Name
	})
	return snaps, nil
}

// Read returns the payload of one stored snapshot.
func (s *Store) Read(branch, name string) ([]byte, error) {
	dir, err := s.branchDir(branch)
	if err != nil {
		return nil, err
	}
	if _, _, ok := ParseName(name); !ok {
		return nil, fmt.Errorf("not a snapshot file name: %q", name)
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s/%s: %w", branch, name, err)
	}
	return data, nil
}

// RemoveBranch irreversibly deletes a branch's entire snapshot directory.
// Removing a branch that has no directory is a no-op.
func (s *Store) RemoveBranch(branch string) error {
	dir, err := s.branchDir(branch)
	if err != nil {
		return err
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove snapshots for %s: %w", branch, err)
	}
	return nil
}

// branchDir maps a branch name onto its directory, rejecting names that
// would escape the output root.
func (s *Store) branchDir(branch string) (string, error) {
	if branch == "" {
		return "", fmt.Errorf("empty branch name")
	}
	if path.Clean(branch) != branch || path.IsAbs(branch) || strings.HasPrefix(branch, "..") {
		return "", fmt.Errorf("invalid branch name: %q", branch)
	}
	return filepath.Join(s.root, filepath.FromSlash(branch)), nil
}
