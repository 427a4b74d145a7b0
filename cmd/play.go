package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jettrobinson87/the-tape/internal/player"
	"github.com/jettrobinson87/the-tape/internal/workspace"
)

var (
	playInteractiveFlag   bool
	playNoInteractiveFlag bool
)

var playCmd = &cobra.Command{
	Use:   "play <file.tape.json>",
	Short: "Play a tape step by step",
	Long: `Play back a tape document interactively.

By default, opens an interactive player when running in a terminal.
Use --no-interactive for plain text output (useful for piping).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := workspace.ReadDocument(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "the-tape: %v\n", err)
			os.Exit(1)
		}

		isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		useInteractive := (playInteractiveFlag || isTTY) && !playNoInteractiveFlag

		if useInteractive {
			if err := player.Run(doc); err != nil {
				fmt.Fprintf(os.Stderr, "the-tape: %v\n", err)
				os.Exit(1)
			}
		} else {
			player.Dump(os.Stdout, doc)
		}
	},
}

func init() {
	playCmd.Flags().BoolVarP(&playInteractiveFlag, "interactive", "i", false, "Force interactive mode")
	playCmd.Flags().BoolVar(&playNoInteractiveFlag, "no-interactive", false, "Disable interactive player, use plain text output")
	rootCmd.AddCommand(playCmd)
}
