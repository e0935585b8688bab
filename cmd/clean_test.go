package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wipstash/internal/testutil"
)

// seedSnapshots plants parseable snapshot files for a branch under the
// default store root.
func seedSnapshots(t *testing.T, repo *testutil.TempGitRepo, branch string, names ...string) string {
	t.Helper()
	dir := snapshotDir(repo, branch)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("diff"), 0644); err != nil {
			t.Fatalf("failed to seed snapshot: %v", err)
		}
	}
	return dir
}

func answer(t *testing.T, input string) {
	t.Helper()
	cleanInput = strings.NewReader(input)
	t.Cleanup(func() {
		cleanInput = os.Stdin
		cleanYes = false
	})
}

func TestCleanRemovesObsoleteBranches(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	gone := seedSnapshots(t, repo, "gone-branch", "20240101-000000.patch")
	kept := seedSnapshots(t, repo, "main", "20240101-000000.patch")
	answer(t, "y\n")

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}

	if _, err := os.Stat(gone); !os.IsNotExist(err) {
		t.Error("obsolete branch directory should be removed")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Error("live branch directory must survive")
	}
}

func TestCleanDeclined(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	gone := seedSnapshots(t, repo, "gone-branch", "20240101-000000.patch")
	answer(t, "n\n")

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(gone); err != nil {
		t.Error("declined cleanup must not delete anything")
	}
}

func TestCleanDefaultAnswerIsNo(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	gone := seedSnapshots(t, repo, "gone-branch", "20240101-000000.patch")
	answer(t, "\n")

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(gone); err != nil {
		t.Error("bare enter must count as no")
	}
}

func TestCleanNamedBranch(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	// Naming a branch removes its snapshots even while the branch lives.
	dir := seedSnapshots(t, repo, "main", "20240101-000000.patch")
	answer(t, "y\n")

	if err := runClean(nil, []string{"main"}); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("named branch snapshots should be removed")
	}
}

func TestCleanNamedBranchWithoutSnapshots(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	seedSnapshots(t, repo, "main", "20240101-000000.patch")
	answer(t, "")

	// Unknown name: report and succeed, nothing to confirm.
	if err := runClean(nil, []string{"never-stored"}); err != nil {
		t.Errorf("expected success for unknown branch, got %v", err)
	}
}

func TestCleanNothingObsolete(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	dir := seedSnapshots(t, repo, "main", "20240101-000000.patch")
	answer(t, "")

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("nothing should be deleted when no branch is obsolete")
	}
}

func TestCleanYesFlagSkipsPrompt(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	gone := seedSnapshots(t, repo, "gone-branch", "20240101-000000.patch")
	answer(t, "")
	cleanYes = true

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(gone); !os.IsNotExist(err) {
		t.Error("--yes should delete without reading the prompt")
	}
}

func TestCleanMultipleObsoleteBranches(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()
	chdir(t, repo.Path)

	a := seedSnapshots(t, repo, "old/a", "20240101-000000.patch")
	b := seedSnapshots(t, repo, "old/b", "20240102-000000.patch", "20240103-000000.patch")
	answer(t, "yes\n")

	if err := runClean(nil, nil); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Error("old/a should be removed")
	}
	if _, err := os.Stat(b); !os.IsNotExist(err) {
		t.Error("old/b should be removed")
	}
}
