package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wipstash/internal/cron"
	"wipstash/internal/git"
)

var (
	watchEvery    int
	watchSchedule string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture this repository on a schedule",
	Long: `Register a crontab entry that runs 'wipstash save' for this repository.

Each repository gets at most one entry: running watch again replaces the
existing schedule. Other crontab lines are left untouched.

Examples:
  wipstash watch                       # every 5 minutes
  wipstash watch --every 15            # every 15 minutes
  wipstash watch --schedule '0 * * * *'`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVar(&watchEvery, "every", 0, "Capture interval in minutes")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "Five-field cron expression")
	watchCmd.MarkFlagsMutuallyExclusive("every", "schedule")
}

func runWatch(cmd *cobra.Command, args []string) error {
	repo, err := git.Resolve(".")
	if err != nil {
		return err
	}

	schedule, err := cron.Schedule(watchEvery, watchSchedule)
	if err != nil {
		return err
	}

	replaced, err := crontab().Watch(repo.Root, schedule)
	if err != nil {
		return err
	}

	if replaced {
		fmt.Printf("✓ Watch job updated: %s\n", schedule)
	} else {
		fmt.Printf("✓ Watch job registered: %s\n", schedule)
	}
	fmt.Printf("  %s\n", cron.Command(repo.Root))

	return nil
}
