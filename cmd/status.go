package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"wipstash/internal/inventory"
)

var (
	statusJSON bool
	statusToon bool
)

func init() {
	rootCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.Flags().BoolVar(&statusToon, "toon", false, "Output in LLM-friendly toon format")
}

type branchStatus struct {
	Branch      string     `json:"branch"`
	Snapshots   int        `json:"snapshots"`
	NewestTaken *time.Time `json:"newest_taken,omitempty"`
	TotalSize   int64      `json:"total_size"`
	Obsolete    bool       `json:"obsolete"`
}

type statusReport struct {
	Repository   string         `json:"repository"`
	Branch       string         `json:"branch"`
	SnapshotRoot string         `json:"snapshot_root"`
	Keep         int            `json:"keep"`
	Branches     []branchStatus `json:"branches"`
	Watched      bool           `json:"watched"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	repo, cfg, st, err := openRepo()
	if err != nil {
		return err
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}

	report := &statusReport{
		Repository:   repo.Root,
		Branch:       branch,
		SnapshotRoot: st.Root(),
		Keep:         cfg.Keep,
	}

	stored, err := st.Branches()
	if err != nil {
		return err
	}
	live, err := repo.LocalBranches()
	if err != nil {
		return err
	}
	obsolete := make(map[string]bool)
	for _, name := range inventory.Classify(stored, live).Obsolete {
		obsolete[name] = true
	}

	for _, name := range stored {
		snaps, err := st.List(name)
		if err != nil {
			return err
		}
		b := branchStatus{Branch: name, Snapshots: len(snaps), Obsolete: obsolete[name]}
		for _, s := range snaps {
			b.TotalSize += s.Size
		}
		if len(snaps) > 0 {
			newest := snaps[len(snaps)-1].Taken
			b.NewestTaken = &newest
		}
		report.Branches = append(report.Branches, b)
	}

	watched, err := crontab().Watched(repo.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read crontab: %v\n", err)
	}
	report.Watched = watched

	if statusJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if statusToon {
		output, err := gotoon.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("Repository:    %s\n", report.Repository)
	fmt.Printf("Branch:        %s\n", report.Branch)
	fmt.Printf("Snapshot root: %s\n", report.SnapshotRoot)
	fmt.Printf("Keep:          %d per branch\n", report.Keep)
	fmt.Println()

	if len(report.Branches) == 0 {
		fmt.Println("No snapshots stored yet. Run 'wipstash save' to capture one.")
	} else {
		fmt.Printf("Stored branches (%d):\n\n", len(report.Branches))
		obsoleteCount := 0
		for _, b := range report.Branches {
			if b.Obsolete {
				fmt.Printf("  %s (obsolete)\n", b.Branch)
				obsoleteCount++
			} else {
				fmt.Printf("  %s\n", b.Branch)
			}
			if b.NewestTaken != nil {
				fmt.Printf("    Snapshots: %d (newest %s, %s total)\n",
					b.Snapshots, humanize.Time(*b.NewestTaken), humanize.Bytes(uint64(b.TotalSize)))
			} else {
				fmt.Printf("    Snapshots: %d\n", b.Snapshots)
			}
		}
		fmt.Println()
		if obsoleteCount > 0 {
			fmt.Printf("Run 'wipstash clean' to remove %d obsolete branch(es)\n", obsoleteCount)
		}
	}

	if report.Watched {
		fmt.Println("Watch job: registered")
	} else {
		fmt.Println("Watch job: not registered (run 'wipstash watch' to capture on a schedule)")
	}

	return nil
}
