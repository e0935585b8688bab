package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showName string

var showCmd = &cobra.Command{
	Use:   "show [branch]",
	Short: "Print a stored snapshot's patch",
	Long: `Print a snapshot's patch to stdout so it can be inspected or piped to
git apply. Without an argument the current branch's newest snapshot is
printed; --name selects a specific snapshot file.

Examples:
  wipstash show
  wipstash show feature-x
  wipstash show --name 20250114-093005-before-rebase.patch
  wipstash show | git apply`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showName, "name", "", "Snapshot file name (default: newest)")
}

func runShow(cmd *cobra.Command, args []string) error {
	repo, _, st, err := openRepo()
	if err != nil {
		return err
	}

	branch := ""
	if len(args) > 0 {
		branch = args[0]
	} else {
		branch, err = repo.CurrentBranch()
		if err != nil {
			return err
		}
	}

	name := showName
	if name == "" {
		snaps, err := st.List(branch)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return fmt.Errorf("no snapshots stored for branch %s", branch)
		}
		name = snaps[len(snaps)-1].Name
	}

	blob, err := st.Read(branch, name)
	if err != nil {
		return err
	}

	if _, err := os.Stdout.Write(blob); err != nil {
		return fmt.Errorf("failed to write patch: %w", err)
	}

	return nil
}
