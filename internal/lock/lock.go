package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrLocked indicates another capture is already in progress for this repository.
var ErrLocked = errors.New("capture already in progress")

// Marker is the per-repository mutual-exclusion guard for captures. Its
// existence is the sole signal of an in-progress capture: a second capture
// fails immediately instead of blocking or queueing. The holder's PID is
// recorded for the error message only.
type Marker struct {
	path string
}

// New returns the capture marker inside the repository's control directory.
func New(gitDir string) *Marker {
	return &Marker{path: filepath.Join(gitDir, "wipstash.lock")}
}

// Path returns the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// Acquire creates the marker atomically, failing with ErrLocked if it
// already exists.
func (m *Marker) Acquire() error {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			if pid, ok := m.holder(); ok {
				return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
			}
			return ErrLocked
		}
		return fmt.Errorf("failed to create lock file %s: %w", m.path, err)
	}

	_, writeErr := f.WriteString(strconv.Itoa(os.Getpid()))
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(m.path)
		if writeErr != nil {
			return fmt.Errorf("failed to write pid to lock file: %w", writeErr)
		}
		return fmt.Errorf("failed to close lock file: %w", closeErr)
	}
	return nil
}

// Release removes the marker. It must run on both the success and failure
// paths of a capture; releasing an already-released marker is a no-op.
func (m *Marker) Release() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", m.path, err)
	}
	return nil
}

// holder reads the PID recorded in an existing marker.
func (m *Marker) holder() (int, bool) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}
