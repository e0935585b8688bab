package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wipstash/internal/git"
)

var unwatchCmd = &cobra.Command{
	Use:   "unwatch",
	Short: "Stop capturing this repository on a schedule",
	Long: `Remove this repository's crontab entry. Succeeds whether or not an
entry exists; other crontab lines are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runUnwatch,
}

func init() {
	rootCmd.AddCommand(unwatchCmd)
}

func runUnwatch(cmd *cobra.Command, args []string) error {
	repo, err := git.Resolve(".")
	if err != nil {
		return err
	}

	removed, err := crontab().Unwatch(repo.Root)
	if err != nil {
		return err
	}

	if removed {
		fmt.Println("✓ Watch job removed")
	} else {
		fmt.Println("No watch job registered for this repository")
	}

	return nil
}
