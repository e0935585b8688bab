package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempGitRepo is a real git repository in a temporary directory.
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a repository with one initial commit on main.
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "wipstash-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	r := &TempGitRepo{Path: tmpDir, T: t}

	setup := [][]string{
		{"init", "-b", "main"},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
	}
	for _, args := range setup {
		if err := r.run(args...); err != nil {
			os.RemoveAll(tmpDir)
			t.Fatalf("failed to set up git repo: %v", err)
		}
	}

	r.CreateFile("README.md", "# Test Repository\n")
	r.Commit("Initial commit")

	return r
}

// Cleanup removes the temporary git repository.
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// GitDir returns the repository's absolute git directory.
func (r *TempGitRepo) GitDir() string {
	r.T.Helper()
	return r.GitOutput("rev-parse", "--absolute-git-dir")
}

// CreateFile creates a file in the working tree.
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Stage adds the given paths to the index.
func (r *TempGitRepo) Stage(paths ...string) {
	r.T.Helper()
	r.Git(append([]string{"add"}, paths...)...)
}

// Commit stages and commits all changes.
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()
	r.Git("add", ".")
	r.Git("commit", "-m", message)
}

// CreateBranch creates a branch without switching to it.
func (r *TempGitRepo) CreateBranch(name string) {
	r.T.Helper()
	r.Git("branch", name)
}

// Checkout switches to an existing branch.
func (r *TempGitRepo) Checkout(name string) {
	r.T.Helper()
	r.Git("checkout", name)
}

// DeleteBranch force-deletes a branch.
func (r *TempGitRepo) DeleteBranch(name string) {
	r.T.Helper()
	r.Git("branch", "-D", name)
}

// Git runs a git command in the repository and fails the test on error.
func (r *TempGitRepo) Git(args ...string) {
	r.T.Helper()
	if err := r.run(args...); err != nil {
		r.T.Fatalf("git %v failed: %v", args, err)
	}
}

// GitOutput runs a git command and returns its trimmed stdout.
func (r *TempGitRepo) GitOutput(args ...string) string {
	r.T.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		r.T.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(output))
}

func (r *TempGitRepo) run(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	return cmd.Run()
}
