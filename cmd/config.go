package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wipstash/internal/config"
)

var (
	configRoot string
	configKeep int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change repository settings",
	Long: `Show the repository's snapshot settings, or change them with flags.

Settings live in the git directory and never appear in the working tree:
  snapshots.root    directory snapshots are stored under
  snapshots.keep    maximum snapshots retained per branch

Writing any setting rewrites the whole file with the effective values.

Examples:
  wipstash config
  wipstash config --keep 20
  wipstash config --root ~/wip-snapshots`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&configRoot, "root", "", "Directory to store snapshots under")
	configCmd.Flags().IntVar(&configKeep, "keep", 0, "Maximum snapshots retained per branch")
}

func runConfig(cmd *cobra.Command, args []string) error {
	repo, cfg, _, err := openRepo()
	if err != nil {
		return err
	}

	path := config.Path(repo.GitDir)

	if !cmd.Flags().Changed("root") && !cmd.Flags().Changed("keep") {
		fmt.Printf("Config file:   %s", path)
		if _, err := os.Stat(path); err != nil {
			fmt.Printf(" (not written, using defaults)")
		}
		fmt.Println()
		fmt.Printf("Snapshot root: %s\n", cfg.Root)
		fmt.Printf("Keep:          %d per branch\n", cfg.Keep)
		return nil
	}

	if cmd.Flags().Changed("root") {
		cfg.Root = configRoot
	}
	if cmd.Flags().Changed("keep") {
		cfg.Keep = configKeep
	}

	if err := config.Save(repo.GitDir, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Settings written: %s\n", path)
	fmt.Printf("  Snapshot root: %s\n", cfg.Root)
	fmt.Printf("  Keep:          %d per branch\n", cfg.Keep)

	return nil
}
