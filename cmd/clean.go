package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"wipstash/internal/inventory"
)

var cleanYes bool

// cleanInput is where the confirmation prompt reads from. Tests swap it out.
var cleanInput io.Reader = os.Stdin

var cleanCmd = &cobra.Command{
	Use:   "clean [branch]",
	Short: "Remove snapshots of deleted branches",
	Long: `Remove stored snapshots whose branch no longer exists locally.

Without arguments every obsolete branch is a candidate; with a branch name
only that branch's snapshots are removed, whether or not the branch still
exists. A summary is shown and confirmation asked before anything is
deleted. Deletion proceeds per branch: a failure is reported and the rest
continue.

Examples:
  wipstash clean
  wipstash clean old-feature
  wipstash clean --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&cleanYes, "yes", false, "Delete without asking for confirmation")
}

type cleanCandidate struct {
	Branch    string
	Snapshots int
	Size      int64
	Newest    time.Time
}

func runClean(cmd *cobra.Command, args []string) error {
	repo, _, st, err := openRepo()
	if err != nil {
		return err
	}

	stored, err := st.Branches()
	if err != nil {
		return err
	}

	var selected []string
	if len(args) > 0 {
		name := args[0]
		if !inventory.Found(stored, name) {
			fmt.Printf("No snapshots stored for branch %s\n", name)
			return nil
		}
		selected = []string{name}
	} else {
		live, err := repo.LocalBranches()
		if err != nil {
			return err
		}
		selected = inventory.Classify(stored, live).Obsolete
		if len(selected) == 0 {
			fmt.Println("No obsolete snapshot branches")
			return nil
		}
	}

	var candidates []cleanCandidate
	for _, branch := range selected {
		snaps, err := st.List(branch)
		if err != nil {
			return err
		}
		c := cleanCandidate{Branch: branch, Snapshots: len(snaps)}
		for _, s := range snaps {
			c.Size += s.Size
			if s.Taken.After(c.Newest) {
				c.Newest = s.Taken
			}
		}
		candidates = append(candidates, c)
	}

	fmt.Printf("Snapshot branches to remove (%d):\n\n", len(candidates))
	for _, c := range candidates {
		fmt.Printf("  %s\n", c.Branch)
		fmt.Printf("    Snapshots: %d\n", c.Snapshots)
		fmt.Printf("    Size:      %s\n", humanize.Bytes(uint64(c.Size)))
		if !c.Newest.IsZero() {
			fmt.Printf("    Newest:    %s\n", humanize.Time(c.Newest))
		}
		fmt.Println()
	}

	if !cleanYes {
		ok, err := confirm("Remove these snapshot branches?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted")
			return nil
		}
	}

	removed := 0
	for _, c := range candidates {
		fmt.Printf("  Deleting %s...\n", c.Branch)
		if err := st.RemoveBranch(c.Branch); err != nil {
			fmt.Printf("    Error: %v\n", err)
		} else {
			fmt.Printf("    ✓ Deleted\n")
			removed++
		}
	}
	fmt.Printf("\n✓ Removed %d branch(es)\n", removed)

	return nil
}

// confirm asks a yes/no question and reports the answer. Anything but an
// explicit yes counts as no.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N] ", prompt)

	line, err := bufio.NewReader(cleanInput).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
