package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wipstash/internal/config"
	"wipstash/internal/cron"
	"wipstash/internal/git"
	"wipstash/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wipstash",
	Short: "Rotating patch snapshots of uncommitted work",
	Long: `wipstash captures the uncommitted state of a git working tree (staged,
unstaged, and untracked changes) into per-branch patch files with bounded
rotation. Run it by hand before risky operations, or register a watch job
to capture on a schedule.

Without arguments it prints a status report for the enclosing repository.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// crontab builds the crontab client. Tests swap this out so they never touch
// the invoking user's real crontab.
var crontab = func() *cron.Crontab {
	return cron.NewCrontab()
}

// openRepo resolves the enclosing repository, its settings, and its
// snapshot store.
func openRepo() (*git.Repo, *config.Config, *store.Store, error) {
	repo, err := git.Resolve(".")
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(repo.Root, repo.GitDir)
	if err != nil {
		return nil, nil, nil, err
	}

	return repo, cfg, store.New(cfg.Root), nil
}
