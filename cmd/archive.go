package cmd

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"wipstash/internal/store"
)

var archiveOutput string

var archiveCmd = &cobra.Command{
	Use:   "archive [branch]",
	Short: "Bundle stored snapshots for external storage",
	Long: `Create a tar.gz archive of stored snapshots for backup or transfer.
Entries are laid out as <branch>/<snapshot>.patch, mirroring the store.

Examples:
  wipstash archive
  wipstash archive feature-x
  wipstash archive --output wip-backup.tar.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().StringVar(&archiveOutput, "output", "", "Output file path (default: wipstash-<date>.tar.gz)")
}

func runArchive(cmd *cobra.Command, args []string) error {
	_, _, st, err := openRepo()
	if err != nil {
		return err
	}

	var branches []string
	if len(args) > 0 {
		branches = args
	} else {
		branches, err = st.Branches()
		if err != nil {
			return err
		}
	}
	if len(branches) == 0 {
		fmt.Println("No snapshots stored")
		return nil
	}

	outputFile := archiveOutput
	if outputFile == "" {
		outputFile = fmt.Sprintf("wipstash-%s.tar.gz", time.Now().Format("20060102"))
	}

	count, err := createArchive(outputFile, st, branches)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	if count == 0 {
		os.Remove(outputFile)
		fmt.Println("No snapshots stored")
		return nil
	}

	if info, err := os.Stat(outputFile); err == nil {
		fmt.Printf("✓ Archive created: %s (%d snapshots, %.2f KB)\n",
			outputFile, count, float64(info.Size())/1024)
	} else {
		fmt.Printf("✓ Archive created: %s (%d snapshots)\n", outputFile, count)
	}

	return nil
}

func createArchive(filename string, st *store.Store, branches []string) (int, error) {
	outFile, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	defer gzWriter.Close()

	tarWriter := tar.NewWriter(gzWriter)
	defer tarWriter.Close()

	count := 0
	for _, branch := range branches {
		snaps, err := st.List(branch)
		if err != nil {
			return count, err
		}

		for _, s := range snaps {
			blob, err := st.Read(branch, s.Name)
			if err != nil {
				return count, err
			}

			header := &tar.Header{
				Name:    filepath.ToSlash(filepath.Join(branch, s.Name)),
				Mode:    0644,
				Size:    int64(len(blob)),
				ModTime: s.Taken,
			}
			if err := tarWriter.WriteHeader(header); err != nil {
				return count, err
			}
			if _, err := tarWriter.Write(blob); err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}
