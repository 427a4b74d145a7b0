package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jettrobinson87/the-tape/internal/store"
	"github.com/jettrobinson87/the-tape/internal/workspace"
)

var listWorkspaceFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tapes in the workspace",
	Long: `List converted tapes recorded in the workspace tape index.

When no index exists yet, the tapes directory is scanned directly.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(); err != nil {
			fmt.Fprintf(os.Stderr, "the-tape: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listWorkspaceFlag, "workspace", "", "Workspace root (default: $THE_TAPE_WORKSPACE or cwd)")
	rootCmd.AddCommand(listCmd)
}

func runList() error {
	root, err := workspace.Resolve(listWorkspaceFlag)
	if err != nil {
		return err
	}
	tapesDir := workspace.TapesDir(root)

	entries, err := listFromIndex(tapesDir)
	if err != nil {
		// Fall back to a directory scan when the index is missing or broken.
		entries, err = listFromScan(tapesDir)
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Printf("No tapes in %s\n", tapesDir)
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-40s  %4d steps  %2d errors  %s\n",
			filepath.Base(e.Path), e.Steps, e.Errors, e.Title)
	}
	return nil
}

func listFromIndex(tapesDir string) ([]store.Entry, error) {
	if _, err := os.Stat(filepath.Join(tapesDir, store.IndexFile)); err != nil {
		return nil, err
	}

	ix, err := store.Open(tapesDir)
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	return ix.List()
}

func listFromScan(tapesDir string) ([]store.Entry, error) {
	files, err := os.ReadDir(tapesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tapes directory: %w", err)
	}

	var entries []store.Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".tape.json") {
			continue
		}
		path := filepath.Join(tapesDir, f.Name())
		doc, err := workspace.ReadDocument(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			continue
		}
		entries = append(entries, store.Entry{
			Path:       path,
			Title:      doc.Metadata.Title,
			RecordedAt: doc.Metadata.RecordedAt,
			Duration:   doc.Metadata.DurationSeconds,
			Steps:      doc.Summary.Steps,
			Tools:      doc.Summary.ToolsUsed,
			Errors:     doc.Summary.Errors,
		})
	}
	return entries, nil
}
