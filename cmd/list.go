package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list [branch]",
	Short: "List stored snapshots",
	Long: `List the snapshots stored for a branch, newest first. Without an
argument the current branch is listed; --all summarizes every branch in
the store instead.

Examples:
  wipstash list
  wipstash list feature-x
  wipstash list --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listAll, "all", false, "Summarize every branch in the store")
}

func runList(cmd *cobra.Command, args []string) error {
	repo, _, st, err := openRepo()
	if err != nil {
		return err
	}

	if listAll {
		if len(args) > 0 {
			return fmt.Errorf("--all cannot be combined with a branch name")
		}

		branches, err := st.Branches()
		if err != nil {
			return err
		}
		if len(branches) == 0 {
			fmt.Println("No snapshots stored")
			return nil
		}

		fmt.Printf("Stored branches (%d):\n\n", len(branches))
		for _, branch := range branches {
			snaps, err := st.List(branch)
			if err != nil {
				return err
			}
			var total int64
			for _, s := range snaps {
				total += s.Size
			}
			fmt.Printf("  %s\n", branch)
			fmt.Printf("    Snapshots: %d\n", len(snaps))
			fmt.Printf("    Size:      %s\n", humanize.Bytes(uint64(total)))
			if len(snaps) > 0 {
				fmt.Printf("    Newest:    %s\n", humanize.Time(snaps[len(snaps)-1].Taken))
			}
			fmt.Println()
		}
		return nil
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

	snaps, err := st.List(branch)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Printf("No snapshots stored for branch %s\n", branch)
		return nil
	}

	fmt.Printf("Snapshots for %s (%d):\n\n", branch, len(snaps))
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		fmt.Printf("  %s\n", s.Name)
		fmt.Printf("    Taken: %s (%s)\n", s.Taken.Format("2006-01-02 15:04:05"), humanize.Time(s.Taken))
		fmt.Printf("    Size:  %s\n", humanize.Bytes(uint64(s.Size)))
		if s.Label != "" {
			fmt.Printf("    Label: %s\n", s.Label)
		}
		fmt.Println()
	}

	return nil
}
