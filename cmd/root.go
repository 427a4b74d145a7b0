package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "the-tape",
	Short: "Convert agent session logs into shareable replay tapes",
	Long: `the-tape converts agent session transcripts (JSONL) into self-contained
Tape v1 replay documents that can be played back step-by-step and safely
shared. Sensitive content is redacted by default before anything leaves
the machine.`,
}

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
