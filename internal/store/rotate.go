package store

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/zeebo/xxh3"
)

// Result is the disposition of one capture.
type Result int

const (
	// Stored means the snapshot was written into free capacity.
	Stored Result = iota
	// StoredAfterEviction means the oldest snapshot(s) were deleted to make room.
	StoredAfterEviction
	// Discarded means the capture duplicated the newest stored snapshot and
	// nothing was written or evicted.
	Discarded
)

// String returns a short human-readable form of the result.
func (r Result) String() string {
	switch r {
	case Stored:
		return "stored"
	case StoredAfterEviction:
		return "stored after eviction"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Outcome reports what Apply did with a capture.
type Outcome struct {
	Result Result
	// File is the written snapshot file name; for Discarded it names the
	// stored duplicate instead.
	File string
	// Evicted lists deleted file names, oldest first. Normally at most one;
	// more when the per-branch cap was lowered between runs.
	Evicted []string
}

// Apply rotates a fresh capture into the branch's store:
//
//  1. An empty store always keeps the capture.
//  2. A capture byte-identical to the newest stored snapshot is discarded;
//     repeated captures of an unchanged working tree must not accumulate files.
//     Only the newest entry is consulted; older duplicates are allowed.
//  3. With the store at capacity, the oldest snapshot is evicted first,
//     unconditionally by age and never by content.
//
// An empty payload is a valid capture ("no changes at this time") and follows
// the same rules. The payload is staged in a scratch file and renamed into
// place after eviction, so a failure mid-write never corrupts the store. Two
// captures landing on the same second with the same label overwrite silently.
func (s *Store) Apply(branch string, blob []byte, max int, label string, takenAt time.Time) (Outcome, error) {
	if max < 1 {
		return Outcome{}, fmt.Errorf("snapshot cap must be positive, got %d", max)
	}

	dir, err := s.branchDir(branch)
	if err != nil {
		return Outcome{}, err
	}

	snaps, err := s.List(branch)
	if err != nil {
		return Outcome{}, err
	}

	if len(snaps) > 0 {
		newest := snaps[len(snaps)-1]
		same, err := s.duplicatesNewest(newest, blob)
		if err != nil {
			return Outcome{}, err
		}
		if same {
			return Outcome{Result: Discarded, File: newest.Name}, nil
		}
	}

	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return Outcome{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := FileName(takenAt, label)
	scratch := filepath.Join(dir, "."+name+".tmp")
	if err := afero.WriteFile(s.fs, scratch, blob, 0644); err != nil {
		return Outcome{}, fmt.Errorf("failed to stage snapshot: %w", err)
	}

	var evicted []string
	for len(snaps)-len(evicted) >= max {
		victim := snaps[len(evicted)]
		if err := s.fs.Remove(filepath.Join(dir, victim.Name)); err != nil {
			_ = s.fs.Remove(scratch)
			return Outcome{}, fmt.Errorf("failed to evict %s: %w", victim.Name, err)
		}
		evicted = append(evicted, victim.Name)
	}

	target := filepath.Join(dir, name)
	if _, err := s.fs.Stat(target); err == nil {
		// Same-second recapture with the same label; last write wins.
		_ = s.fs.Remove(target)
	}
	if err := s.fs.Rename(scratch, target); err != nil {
		_ = s.fs.Remove(scratch)
		return Outcome{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	result := Stored
	if len(evicted) > 0 {
		result = StoredAfterEviction
	}
	return Outcome{Result: result, File: name, Evicted: evicted}, nil
}

// duplicatesNewest reports whether blob is byte-identical to the newest
// stored snapshot. Size and xxh3 checks reject cheaply; equal hashes are
// confirmed byte-for-byte.
func (s *Store) duplicatesNewest(newest Snapshot, blob []byte) (bool, error) {
	if newest.Size != int64(len(blob)) {
		return false, nil
	}
	stored, err := s.Read(newest.Branch, newest.Name)
	if err != nil {
		return false, err
	}
	if xxh3.Hash128(stored) != xxh3.Hash128(blob) {
		return false, nil
	}
	return bytes.Equal(stored, blob), nil
}
