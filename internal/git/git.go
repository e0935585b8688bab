package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepository indicates the working directory is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

// Repo is a resolved git repository.
type Repo struct {
	// Root is the top level of the working tree.
	Root string
	// GitDir is the absolute path of the repository's control directory.
	GitDir string
}

// Resolve locates the repository containing dir.
func Resolve(dir string) (*Repo, error) {
	root, err := output(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotRepository
	}

	gitDir, err := output(dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, ErrNotRepository
	}

	return &Repo{Root: root, GitDir: gitDir}, nil
}

// IsRepository checks if dir is inside a git working tree
func IsRepository(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	return cmd.Run() == nil
}

// CurrentBranch returns the name of the checked-out branch
func (r *Repo) CurrentBranch() (string, error) {
	branch, err := output(r.Root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return branch, nil
}

// LocalBranches returns all local branch names, verbatim.
func (r *Repo) LocalBranches() ([]string, error) {
	out, err := output(r.Root, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// UntrackedFiles returns the paths of untracked, non-ignored files in the
// order git lists them.
func (r *Repo) UntrackedFiles() ([]string, error) {
	out, err := raw(r.Root, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}

	var files []string
	for _, path := range strings.Split(out, "\x00") {
		if path != "" {
			files = append(files, path)
		}
	}
	return files, nil
}

// Capture produces one diff blob covering every uncommitted change: the diff
// of the working tree against HEAD (staged and unstaged), followed by a
// synthetic creation diff for each untracked file. A repository without any
// commit has no HEAD to diff against; that failure is returned as-is rather
// than capturing a partial snapshot.
func (r *Repo) Capture() ([]byte, error) {
	var blob bytes.Buffer

	tracked, err := raw(r.Root, "diff", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to diff against HEAD: %w", err)
	}
	blob.WriteString(tracked)

	files, err := r.UntrackedFiles()
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		diff, err := r.untrackedDiff(path)
		if err != nil {
			return nil, err
		}
		blob.WriteString(diff)
	}

	return blob.Bytes(), nil
}

// untrackedDiff produces a file-creation diff for a single untracked file.
func (r *Repo) untrackedDiff(path string) (string, error) {
	cmd := exec.Command("git", "-C", r.Root, "diff", "--no-index", "--", "/dev/null", path)
	out, err := cmd.Output()
	if err != nil {
		// --no-index exits 1 when the inputs differ, which is the expected
		// outcome for any non-empty file.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return string(out), nil
		}
		return "", fmt.Errorf("failed to diff untracked file %s: %w", path, gitError(err))
	}
	return string(out), nil
}

// raw runs git in dir and returns its stdout untouched.
func raw(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", gitError(err)
	}
	return string(out), nil
}

// output runs git in dir and returns its stdout with surrounding whitespace trimmed.
func output(dir string, args ...string) (string, error) {
	out, err := raw(dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// gitError surfaces git's own stderr message when one is available.
func gitError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return errors.New(msg)
		}
	}
	return err
}
