package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wipstash/internal/lock"
	"wipstash/internal/store"
)

var saveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Capture the working tree's uncommitted changes",
	Long: `Capture staged, unstaged, and untracked changes into a patch file under
the current branch's snapshot directory.

The newest existing snapshot is compared first: an identical capture is
discarded, so repeated saves of an unchanged tree cost nothing. When the
branch is at its retention limit, the oldest snapshot is evicted to make
room.

Examples:
  wipstash save
  wipstash save before-rebase`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	repo, cfg, st, err := openRepo()
	if err != nil {
		return err
	}

	label := ""
	if len(args) > 0 {
		label = slugify(args[0])
		if label == "" {
			return fmt.Errorf("label must contain at least one letter or digit")
		}
	}

	marker := lock.New(repo.GitDir)
	if err := marker.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := marker.Release(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove lock file: %v\n", err)
		}
	}()

	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}

	blob, err := repo.Capture()
	if err != nil {
		return err
	}

	outcome, err := st.Apply(branch, blob, cfg.Keep, label, time.Now())
	if err != nil {
		return err
	}

	if outcome.Result == store.Discarded {
		fmt.Printf("No change since the newest snapshot on %s\n", branch)
		return nil
	}

	fmt.Printf("✓ Snapshot saved: %s\n", filepath.Join(branch, outcome.File))
	for _, name := range outcome.Evicted {
		fmt.Printf("  Evicted: %s\n", name)
	}

	return nil
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return strings.Trim(result.String(), "-")
}
