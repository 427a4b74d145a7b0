package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jettrobinson87/the-tape/internal/store"
	"github.com/jettrobinson87/the-tape/internal/tape"
	"github.com/jettrobinson87/the-tape/internal/workspace"
)

var (
	convertOutFlag       string
	convertTitleFlag     string
	convertWorkspaceFlag string
	convertNoRedactFlag  bool
	convertQuietFlag     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <session.jsonl>",
	Short: "Convert a session transcript to a tape",
	Long: `Convert an agent session transcript (one JSON record per line) into a
Tape v1 document.

Redaction is on by default; disable with --no-redact (not recommended
for tapes that will be shared).

By default the tape is written to <workspace>/tapes/<date>-<title>.tape.json
and recorded in the workspace tape index.

Examples:
  the-tape convert session.jsonl
  the-tape convert session.jsonl --out debug.tape.json --no-redact`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConvert(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "the-tape: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertOutFlag, "out", "", "Output path (default: <workspace>/tapes/<date>-<title>.tape.json)")
	convertCmd.Flags().StringVar(&convertTitleFlag, "title", "", "Override the tape title derived from the transcript")
	convertCmd.Flags().StringVar(&convertWorkspaceFlag, "workspace", "", "Workspace root (default: $THE_TAPE_WORKSPACE or cwd)")
	convertCmd.Flags().BoolVar(&convertNoRedactFlag, "no-redact", false, "Disable redaction (NOT recommended)")
	convertCmd.Flags().BoolVarP(&convertQuietFlag, "quiet", "q", false, "Only print the output path")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(inputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	hint := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	doc, err := tape.Convert(raw, hint, convertTitleFlag, !convertNoRedactFlag)
	if err != nil {
		return err
	}

	outPath := convertOutFlag
	indexed := false
	if outPath == "" {
		root, err := workspace.Resolve(convertWorkspaceFlag)
		if err != nil {
			return err
		}
		outPath = workspace.OutputPath(root, doc)
		indexed = true
	}

	if err := workspace.WriteDocument(outPath, doc); err != nil {
		return err
	}

	// Index only tapes written into a workspace; one-off --out paths are
	// not part of the library.
	if indexed {
		if err := indexTape(outPath, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if convertQuietFlag {
		fmt.Println(outPath)
		return nil
	}

	fmt.Printf("Wrote: %s\n", outPath)
	fmt.Printf("  %d steps, %d tools, %d errors, %.0fs\n",
		doc.Summary.Steps, len(doc.Summary.ToolsUsed), doc.Summary.Errors,
		doc.Metadata.DurationSeconds)
	if convertNoRedactFlag {
		fmt.Println("  redaction disabled: do not share this tape")
	}
	return nil
}

func indexTape(path string, doc *tape.Document) error {
	ix, err := store.Open(filepath.Dir(path))
	if err != nil {
		return err
	}
	defer ix.Close()
	return ix.Record(path, doc)
}
