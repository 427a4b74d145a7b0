package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// EnvSessionFile names the environment variable an agent's session-end
// hook uses to pass the transcript path.
const EnvSessionFile = "THE_TAPE_SESSION_FILE"

var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Convert the session named by the hook environment",
	Hidden: true,
	Long: `Intended to be invoked from an agent's session-end hook. Reads the
transcript path from THE_TAPE_SESSION_FILE and the workspace root from
THE_TAPE_WORKSPACE, then converts.

Missing context is reported as a warning, never a failure: a hook must
not break the host agent.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sessionFile := os.Getenv(EnvSessionFile)
		if sessionFile == "" {
			fmt.Fprintf(os.Stderr, "the-tape: %s not set, nothing to convert\n", EnvSessionFile)
			return
		}
		if _, err := os.Stat(sessionFile); err != nil {
			fmt.Fprintf(os.Stderr, "the-tape: session file not found: %s\n", sessionFile)
			return
		}

		convertQuietFlag = true
		if err := runConvert(sessionFile); err != nil {
			// Report and exit cleanly; the hook caller only logs.
			fmt.Fprintf(os.Stderr, "the-tape: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
