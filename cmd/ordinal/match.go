package main

import (
	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match EXPR [FILE...]",
	Short: "Print the ordinal of each filename",
	Long: `Prints the ordinal every filename encodes under EXPR, or "-" when the file
is not part of the sequence. Without FILE arguments the directory is listed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, names := args[0], args[1:]
		seq, err := ordinal.Compile(expr)
		if err != nil {
			return err
		}

		if len(names) == 0 {
			d, err := cli.openDir()
			if err != nil {
				return err
			}
			if names, err = d.List(cmd.Context()); err != nil {
				return err
			}
		}

		rows := make([]tui.MatchResult, 0, len(names))
		for _, name := range names {
			n, ok := seq.MatchOrdinal(name)
			rows = append(rows, tui.MatchResult{Filename: name, Ordinal: n, Matched: ok})
		}
		return cli.printer.Matches(expr, rows)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
